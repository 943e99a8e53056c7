package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
)

type stubDashboardAPI struct {
	statsErr error
	usersErr error
	calls    atomic.Int32
}

func (s *stubDashboardAPI) DashboardStats(context.Context) (domain.DashboardStats, error) {
	s.calls.Add(1)
	return domain.DashboardStats{TotalProducts: 12, ActiveJobs: 3}, s.statsErr
}

func (s *stubDashboardAPI) RecentInquiries(_ context.Context, limit int) ([]domain.DealershipInquiry, error) {
	out := make([]domain.DealershipInquiry, limit)
	for i := range out {
		out[i].ID = string(rune('a' + i))
	}
	return out, nil
}

func (s *stubDashboardAPI) RecentUsers(context.Context, int) ([]domain.UserSummary, error) {
	return []domain.UserSummary{{ID: "u1", Name: "Admin"}}, s.usersErr
}

func TestDashboardPanelsFailIndependently(t *testing.T) {
	stub := &stubDashboardAPI{statsErr: &api.Error{Status: 500, Message: "stats offline"}}
	d := NewDashboard(stub, nil)

	v := d.Load(context.Background())
	assert.Equal(t, "stats offline", v.StatsErr)
	assert.Zero(t, v.Stats)
	assert.Len(t, v.Inquiries, 5)
	assert.Len(t, v.Users, 1)
	assert.Empty(t, v.InquiriesErr)
	assert.False(t, v.LoadedAt.IsZero())
	assert.Equal(t, v, d.View())
}

func TestDashboardFallbackMessage(t *testing.T) {
	d := NewDashboard(&stubDashboardAPI{usersErr: errors.New("dial tcp: refused")}, nil)
	v := d.Load(context.Background())
	assert.Equal(t, "Failed to load recent users", v.UsersErr)
	assert.Equal(t, 12, v.Stats.TotalProducts)
}

func TestDashboardNoTokenShowsNoError(t *testing.T) {
	d := NewDashboard(&stubDashboardAPI{statsErr: api.ErrNoToken}, nil)
	v := d.Load(context.Background())
	assert.Empty(t, v.StatsErr)
}

func TestDashboardAutoRefreshStops(t *testing.T) {
	stub := &stubDashboardAPI{}
	d := NewDashboard(stub, nil)

	views := make(chan DashboardView, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.AutoRefresh(context.Background(), 5*time.Millisecond, func(v DashboardView) { views <- v })
	}()

	for range 3 {
		select {
		case <-views:
		case <-time.After(2 * time.Second):
			t.Fatal("no refresh")
		}
	}
	d.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("AutoRefresh did not return after Stop")
	}
	require.GreaterOrEqual(t, stub.calls.Load(), int32(3))
}
