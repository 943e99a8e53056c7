package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/export"
	"github.com/vbonduro/cmsadmin/internal/listing"
	"github.com/vbonduro/cmsadmin/internal/mutate"
)

// inquiriesAPI is the subset of api.Client that InquiriesPage requires.
type inquiriesAPI interface {
	ListInquiries(ctx context.Context, p api.ListParams) (api.Page[domain.DealershipInquiry], error)
	UpdateInquiryStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.DealershipInquiry, error)
	DeleteInquiry(ctx context.Context, id string) error
}

type InquiriesPage struct {
	List *listing.Controller[domain.DealershipInquiry]

	api    inquiriesAPI
	mut    *mutate.Mutator[domain.DealershipInquiry]
	now    func() time.Time
	logger *slog.Logger
}

func NewInquiriesPage(client inquiriesAPI, n Notifier, s Settings, logger *slog.Logger, opts ...listing.Option) *InquiriesPage {
	logger = loggerOr(logger).With("page", "inquiries")
	base := []listing.Option{
		listing.WithPageSize(s.PageSize),
		listing.WithDebounce(s.Debounce),
		listing.WithFailMessage("Failed to load inquiries"),
		listing.WithLogger(logger),
	}
	list := listing.NewController(client.ListInquiries, func(q domain.DealershipInquiry) string { return q.ID }, append(base, opts...)...)
	return &InquiriesPage{
		List:   list,
		api:    client,
		mut:    mutate.New[domain.DealershipInquiry](list, n, n, logger),
		now:    time.Now,
		logger: logger,
	}
}

// UpdateStatus changes the status optimistically. Moving to resolved stamps
// resolvedAt locally until the server's copy arrives.
func (p *InquiriesPage) UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (domain.DealershipInquiry, error) {
	return p.mut.Apply(ctx, id,
		func(q domain.DealershipInquiry) domain.DealershipInquiry {
			q.Status = status
			if status == domain.InquiryResolved && q.ResolvedAt == nil {
				now := p.now()
				q.ResolvedAt = &now
			}
			return q
		},
		func(ctx context.Context, _ domain.DealershipInquiry) (*domain.DealershipInquiry, error) {
			return p.api.UpdateInquiryStatus(ctx, id, status)
		},
		"Failed to update inquiry status",
	)
}

func (p *InquiriesPage) Delete(ctx context.Context, id string) error {
	name := id
	if q, ok := p.List.Lookup(id); ok && q.CompanyName != "" {
		name = q.CompanyName
	}
	return p.mut.Delete(ctx, id,
		fmt.Sprintf("Delete the inquiry from %s?", name),
		func(ctx context.Context) error { return p.api.DeleteInquiry(ctx, id) },
		"Failed to delete inquiry",
	)
}

// Export writes the loaded page of inquiries as a workbook.
func (p *InquiriesPage) Export(w io.Writer) error {
	items := p.List.State().Items
	if err := export.Write(w, "Inquiries", export.InquiryColumns(), items); err != nil {
		return fmt.Errorf("failed to export inquiries: %w", err)
	}
	p.logger.Info("inquiries exported", "count", len(items))
	return nil
}
