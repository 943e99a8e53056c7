package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/form"
	"github.com/vbonduro/cmsadmin/internal/listing"
	"github.com/vbonduro/cmsadmin/internal/mutate"
)

// careersAPI is the subset of api.Client that CareersPage requires.
type careersAPI interface {
	ListCareers(ctx context.Context, p api.ListParams) (api.Page[domain.JobPosting], error)
	GetCareer(ctx context.Context, id string) (*domain.JobPosting, error)
	CreateCareer(ctx context.Context, payload any) (*domain.JobPosting, error)
	UpdateCareer(ctx context.Context, id string, payload any) (*domain.JobPosting, error)
	ToggleCareerActive(ctx context.Context, id string) (*domain.JobPosting, error)
	DeleteCareer(ctx context.Context, id string) error
}

type CareersPage struct {
	List *listing.Controller[domain.JobPosting]

	api    careersAPI
	mut    *mutate.Mutator[domain.JobPosting]
	drafts form.DraftRepository
	logger *slog.Logger
}

// NewCareersPage builds the job postings page. drafts may be nil.
func NewCareersPage(client careersAPI, n Notifier, drafts form.DraftRepository, s Settings, logger *slog.Logger, opts ...listing.Option) *CareersPage {
	logger = loggerOr(logger).With("page", "careers")
	base := []listing.Option{
		listing.WithPageSize(s.PageSize),
		listing.WithDebounce(s.Debounce),
		listing.WithFailMessage("Failed to load job postings"),
		listing.WithLogger(logger),
	}
	list := listing.NewController(client.ListCareers, func(j domain.JobPosting) string { return j.ID }, append(base, opts...)...)
	return &CareersPage{
		List:   list,
		api:    client,
		mut:    mutate.New[domain.JobPosting](list, n, n, logger),
		drafts: drafts,
		logger: logger,
	}
}

func (p *CareersPage) ToggleActive(ctx context.Context, id string) (domain.JobPosting, error) {
	return p.mut.Apply(ctx, id,
		func(j domain.JobPosting) domain.JobPosting {
			j.IsActive = !j.IsActive
			return j
		},
		func(ctx context.Context, _ domain.JobPosting) (*domain.JobPosting, error) {
			return p.api.ToggleCareerActive(ctx, id)
		},
		"Failed to update job status",
	)
}

// ToggleHot flips the featured flag. The server has no dedicated endpoint for
// it, so a partial update carries the new value.
func (p *CareersPage) ToggleHot(ctx context.Context, id string) (domain.JobPosting, error) {
	return p.mut.Apply(ctx, id,
		func(j domain.JobPosting) domain.JobPosting {
			j.IsHot = !j.IsHot
			return j
		},
		func(ctx context.Context, j domain.JobPosting) (*domain.JobPosting, error) {
			return p.api.UpdateCareer(ctx, id, map[string]bool{"isHot": j.IsHot})
		},
		"Failed to update job",
	)
}

func (p *CareersPage) Delete(ctx context.Context, id string) error {
	name := id
	if j, ok := p.List.Lookup(id); ok && j.Title != "" {
		name = j.Title
	}
	return p.mut.Delete(ctx, id,
		fmt.Sprintf("Delete job posting %q? This cannot be undone.", name),
		func(ctx context.Context) error { return p.api.DeleteCareer(ctx, id) },
		"Failed to delete job posting",
	)
}

// NewEditor opens a create form with the posting defaults.
func (p *CareersPage) NewEditor() *form.Editor[*form.JobPostingDraft] {
	return form.NewEditor(p.editorConfig(), form.ModeCreate, "", form.NewJobPostingDraft())
}

// EditEditor fetches the posting and opens an edit form seeded from it.
func (p *CareersPage) EditEditor(ctx context.Context, id string) (*form.Editor[*form.JobPostingDraft], error) {
	job, err := p.api.GetCareer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load job posting: %w", err)
	}
	return form.NewEditor(p.editorConfig(), form.ModeEdit, id, form.JobPostingDraftFrom(*job)), nil
}

func (p *CareersPage) editorConfig() form.EditorConfig[*form.JobPostingDraft] {
	return form.EditorConfig[*form.JobPostingDraft]{
		Kind: "career",
		Submit: func(ctx context.Context, mode form.Mode, id string, d *form.JobPostingDraft) error {
			var err error
			if mode == form.ModeEdit {
				_, err = p.api.UpdateCareer(ctx, id, d.Payload())
			} else {
				_, err = p.api.CreateCareer(ctx, d.Payload())
			}
			return err
		},
		OnSaved:  p.List.Refresh,
		Fallback: "Failed to save job posting",
		Drafts:   p.drafts,
		Logger:   p.logger,
	}
}
