package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/export"
	"github.com/vbonduro/cmsadmin/internal/form"
	"github.com/vbonduro/cmsadmin/internal/listing"
	"github.com/vbonduro/cmsadmin/internal/mutate"
)

// applicationsAPI is the subset of api.Client that ApplicationsPage requires.
type applicationsAPI interface {
	ListApplications(ctx context.Context, p api.ListParams) (api.Page[domain.JobApplication], error)
	UpdateApplication(ctx context.Context, id string, u api.ApplicationUpdate) (*domain.JobApplication, error)
}

// StatusModal is the open status-update dialog, seeded from the application.
type StatusModal struct {
	ID       string
	Status   domain.ApplicationStatus
	Priority domain.Priority
	Rating   *int
	Notes    string
}

type ApplicationsPage struct {
	List *listing.Controller[domain.JobApplication]

	api    applicationsAPI
	mut    *mutate.Mutator[domain.JobApplication]
	logger *slog.Logger

	mu    sync.Mutex
	modal *StatusModal
}

func NewApplicationsPage(client applicationsAPI, n Notifier, s Settings, logger *slog.Logger, opts ...listing.Option) *ApplicationsPage {
	logger = loggerOr(logger).With("page", "applications")
	base := []listing.Option{
		listing.WithPageSize(s.PageSize),
		listing.WithDebounce(s.Debounce),
		listing.WithFailMessage("Failed to load applications"),
		listing.WithLogger(logger),
	}
	list := listing.NewController(client.ListApplications, func(a domain.JobApplication) string { return a.ID }, append(base, opts...)...)
	return &ApplicationsPage{
		List:   list,
		api:    client,
		mut:    mutate.New[domain.JobApplication](list, n, n, logger),
		logger: logger,
	}
}

// OpenStatusModal opens the status dialog for a loaded application.
func (p *ApplicationsPage) OpenStatusModal(id string) (StatusModal, error) {
	app, ok := p.List.Lookup(id)
	if !ok {
		return StatusModal{}, fmt.Errorf("failed to open application %s: %w", id, mutate.ErrNotFound)
	}
	m := StatusModal{ID: id, Status: app.Status, Priority: app.Priority, Rating: app.Rating, Notes: app.Notes}
	p.mu.Lock()
	p.modal = &m
	p.mu.Unlock()
	return m, nil
}

func (p *ApplicationsPage) Modal() (StatusModal, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.modal == nil {
		return StatusModal{}, false
	}
	return *p.modal, true
}

func (p *ApplicationsPage) CloseModal() {
	p.mu.Lock()
	p.modal = nil
	p.mu.Unlock()
}

// UpdateStatus patches the application optimistically. The status dialog
// closes when the server accepts the change and stays open when it refuses.
func (p *ApplicationsPage) UpdateStatus(ctx context.Context, id string, u api.ApplicationUpdate) (domain.JobApplication, error) {
	if u.Rating != nil && (*u.Rating < 1 || *u.Rating > 5) {
		return domain.JobApplication{}, &form.ValidationError{Invalid: []string{"rating (1 to 5)"}}
	}
	patch := func(a domain.JobApplication) domain.JobApplication {
		if u.Status != nil {
			a.Status = *u.Status
		}
		if u.Priority != nil {
			a.Priority = *u.Priority
		}
		if u.Rating != nil {
			r := *u.Rating
			a.Rating = &r
		}
		if u.Notes != nil {
			a.Notes = *u.Notes
		}
		return a
	}
	send := func(ctx context.Context, _ domain.JobApplication) (*domain.JobApplication, error) {
		return p.api.UpdateApplication(ctx, id, u)
	}

	got, err := p.mut.Apply(ctx, id, patch, send, "Failed to update application status")
	if err != nil {
		return got, err
	}
	p.mu.Lock()
	if p.modal != nil && p.modal.ID == id {
		p.modal = nil
	}
	p.mu.Unlock()
	return got, nil
}

// Export writes the loaded page of applications as a workbook.
func (p *ApplicationsPage) Export(w io.Writer) error {
	items := p.List.State().Items
	if err := export.Write(w, "Applications", export.ApplicationColumns(), items); err != nil {
		return fmt.Errorf("failed to export applications: %w", err)
	}
	p.logger.Info("applications exported", "count", len(items))
	return nil
}
