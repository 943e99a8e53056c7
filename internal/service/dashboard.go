package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
)

const recentLimit = 5

// dashboardAPI is the subset of api.Client that Dashboard requires.
type dashboardAPI interface {
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
	RecentInquiries(ctx context.Context, limit int) ([]domain.DealershipInquiry, error)
	RecentUsers(ctx context.Context, limit int) ([]domain.UserSummary, error)
}

// DashboardView is one rendering of the dashboard. Each panel fails on its
// own: a failed panel keeps its zero value and sets its error text.
type DashboardView struct {
	Stats     domain.DashboardStats
	Inquiries []domain.DealershipInquiry
	Users     []domain.UserSummary

	StatsErr     string
	InquiriesErr string
	UsersErr     string

	LoadedAt time.Time
}

type Dashboard struct {
	api    dashboardAPI
	now    func() time.Time
	logger *slog.Logger

	mu   sync.Mutex
	view DashboardView
	stop context.CancelFunc
}

func NewDashboard(client dashboardAPI, logger *slog.Logger) *Dashboard {
	return &Dashboard{api: client, now: time.Now, logger: loggerOr(logger).With("page", "dashboard")}
}

// Load fetches the three panels concurrently.
func (d *Dashboard) Load(ctx context.Context) DashboardView {
	var (
		v DashboardView
		g errgroup.Group
	)
	g.Go(func() error {
		stats, err := d.api.DashboardStats(ctx)
		if err != nil {
			v.StatsErr = d.panelError("stats", err, "Failed to load statistics")
			return nil
		}
		v.Stats = stats
		return nil
	})
	g.Go(func() error {
		items, err := d.api.RecentInquiries(ctx, recentLimit)
		if err != nil {
			v.InquiriesErr = d.panelError("inquiries", err, "Failed to load recent inquiries")
			return nil
		}
		v.Inquiries = items
		return nil
	})
	g.Go(func() error {
		users, err := d.api.RecentUsers(ctx, recentLimit)
		if err != nil {
			v.UsersErr = d.panelError("users", err, "Failed to load recent users")
			return nil
		}
		v.Users = users
		return nil
	})
	_ = g.Wait()

	v.LoadedAt = d.now()
	d.mu.Lock()
	d.view = v
	d.mu.Unlock()
	return v
}

func (d *Dashboard) panelError(panel string, err error, fallback string) string {
	if errors.Is(err, api.ErrNoToken) {
		return ""
	}
	d.logger.Error("dashboard panel failed", "panel", panel, "error", err)
	return api.Message(err, fallback)
}

// View returns the last loaded view.
func (d *Dashboard) View() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// AutoRefresh loads now and then every interval, passing each view to fn,
// until ctx is done or Stop is called. It blocks.
func (d *Dashboard) AutoRefresh(ctx context.Context, interval time.Duration, fn func(DashboardView)) {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	if d.stop != nil {
		d.stop()
	}
	d.stop = cancel
	d.mu.Unlock()
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		v := d.Load(ctx)
		if ctx.Err() != nil {
			return
		}
		if fn != nil {
			fn(v)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *Dashboard) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}
