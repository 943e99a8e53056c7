package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/form"
	"github.com/vbonduro/cmsadmin/internal/mutate"
	"github.com/vbonduro/cmsadmin/internal/reorder"
)

// leadershipAPI is the subset of api.Client that LeadershipPage requires.
type leadershipAPI interface {
	ListLeadership(ctx context.Context) ([]domain.LeadershipMember, error)
	GetLeader(ctx context.Context, id string) (*domain.LeadershipMember, error)
	CreateLeader(ctx context.Context, payload any) (*domain.LeadershipMember, error)
	UpdateLeader(ctx context.Context, id string, payload any) (*domain.LeadershipMember, error)
	DeleteLeader(ctx context.Context, id string) error
	ReorderLeadership(ctx context.Context, ids []string) error
}

type LeadershipPage struct {
	Order *reorder.List[domain.LeadershipMember]

	api    leadershipAPI
	mut    *mutate.Mutator[domain.LeadershipMember]
	drafts form.DraftRepository
	logger *slog.Logger
}

func NewLeadershipPage(client leadershipAPI, n Notifier, drafts form.DraftRepository, logger *slog.Logger) *LeadershipPage {
	logger = loggerOr(logger).With("page", "leadership")
	p := &LeadershipPage{api: client, drafts: drafts, logger: logger}
	p.Order = reorder.New(
		func(m domain.LeadershipMember) string { return m.ID },
		client.ReorderLeadership,
		p.fetch,
		logger,
	)
	p.mut = mutate.New[domain.LeadershipMember](p.Order, n, n, logger)
	return p
}

// fetch returns the members in display order.
func (p *LeadershipPage) fetch(ctx context.Context) ([]domain.LeadershipMember, error) {
	members, err := p.api.ListLeadership(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(members, func(a, b domain.LeadershipMember) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return members, nil
}

func (p *LeadershipPage) Refresh(ctx context.Context) error {
	members, err := p.fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to load leadership: %w", err)
	}
	p.Order.Load(members)
	p.logger.Debug("leadership loaded", "count", len(members))
	return nil
}

func (p *LeadershipPage) Members() []domain.LeadershipMember { return p.Order.Items() }

// Move places id where targetID is and saves the new order.
func (p *LeadershipPage) Move(ctx context.Context, id, targetID string) error {
	return p.Order.Move(ctx, id, targetID)
}

// ToggleStatus flips a member between active and archived.
func (p *LeadershipPage) ToggleStatus(ctx context.Context, id string) (domain.LeadershipMember, error) {
	return p.mut.Apply(ctx, id,
		func(m domain.LeadershipMember) domain.LeadershipMember {
			if m.Status == domain.MemberArchived {
				m.Status = domain.MemberActive
			} else {
				m.Status = domain.MemberArchived
			}
			return m
		},
		func(ctx context.Context, m domain.LeadershipMember) (*domain.LeadershipMember, error) {
			return p.api.UpdateLeader(ctx, id, form.LeadershipDraftFrom(m).Payload())
		},
		"Failed to update member",
	)
}

func (p *LeadershipPage) Delete(ctx context.Context, id string) error {
	name := id
	if m, ok := p.Order.Lookup(id); ok && m.Name != "" {
		name = m.Name
	}
	return p.mut.Delete(ctx, id,
		fmt.Sprintf("Remove %s from the leadership team?", name),
		func(ctx context.Context) error { return p.api.DeleteLeader(ctx, id) },
		"Failed to delete member",
	)
}

// NewEditor opens a create form placing the new member last.
func (p *LeadershipPage) NewEditor() *form.Editor[*form.LeadershipDraft] {
	next := 0
	for _, m := range p.Order.Items() {
		next = max(next, m.SortOrder+1)
	}
	return form.NewEditor(p.editorConfig(), form.ModeCreate, "", form.NewLeadershipDraft(next))
}

func (p *LeadershipPage) EditEditor(ctx context.Context, id string) (*form.Editor[*form.LeadershipDraft], error) {
	m, err := p.api.GetLeader(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return form.NewEditor(p.editorConfig(), form.ModeEdit, id, form.LeadershipDraftFrom(*m)), nil
}

func (p *LeadershipPage) editorConfig() form.EditorConfig[*form.LeadershipDraft] {
	return form.EditorConfig[*form.LeadershipDraft]{
		Kind: "leader",
		Submit: func(ctx context.Context, mode form.Mode, id string, d *form.LeadershipDraft) error {
			var err error
			if mode == form.ModeEdit {
				_, err = p.api.UpdateLeader(ctx, id, d.Payload())
			} else {
				_, err = p.api.CreateLeader(ctx, d.Payload())
			}
			return err
		},
		OnSaved: func() {
			if err := p.Refresh(context.Background()); err != nil {
				p.logger.Error("failed to refresh after save", "error", err)
			}
		},
		Fallback: "Failed to save member",
		Drafts:   p.drafts,
		Logger:   p.logger,
	}
}
