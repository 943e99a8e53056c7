package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/form"
)

type stubApplicationsAPI struct {
	items     []domain.JobApplication
	lastQuery api.ListParams
	updated   *domain.JobApplication
	updateErr error
	sent      []api.ApplicationUpdate
}

func (s *stubApplicationsAPI) ListApplications(_ context.Context, p api.ListParams) (api.Page[domain.JobApplication], error) {
	s.lastQuery = p
	return api.Page[domain.JobApplication]{Items: s.items, Page: 1, TotalPages: 1, Total: len(s.items)}, nil
}

func (s *stubApplicationsAPI) UpdateApplication(_ context.Context, _ string, u api.ApplicationUpdate) (*domain.JobApplication, error) {
	s.sent = append(s.sent, u)
	return s.updated, s.updateErr
}

func newTestApplicationsPage(t *testing.T, stub *stubApplicationsAPI, n *stubNotifier) *ApplicationsPage {
	t.Helper()
	p := NewApplicationsPage(stub, n, Settings{PageSize: 10}, nil)
	t.Cleanup(p.List.Close)
	p.List.Load()
	p.List.Wait()
	return p
}

func TestApplicationsUpdateStatusClosesModal(t *testing.T) {
	stub := &stubApplicationsAPI{
		items: []domain.JobApplication{{ID: "a1", Status: domain.StatusPending, Priority: domain.PriorityMedium}},
		updated: &domain.JobApplication{
			ID: "a1", Status: domain.StatusShortlisted, Priority: domain.PriorityMedium, Rating: ptr(4),
		},
	}
	p := newTestApplicationsPage(t, stub, newStubNotifier(true))

	modal, err := p.OpenStatusModal("a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, modal.Status)

	got, err := p.UpdateStatus(context.Background(), "a1", api.ApplicationUpdate{
		Status: ptr(domain.StatusShortlisted),
		Rating: ptr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShortlisted, got.Status)

	item, ok := p.List.Lookup("a1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusShortlisted, item.Status)
	require.NotNil(t, item.Rating)
	assert.Equal(t, 4, *item.Rating)

	_, open := p.Modal()
	assert.False(t, open)

	require.Len(t, stub.sent, 1)
	assert.Nil(t, stub.sent[0].Priority)
}

func TestApplicationsUpdateStatusFailureKeepsModal(t *testing.T) {
	stub := &stubApplicationsAPI{
		items:     []domain.JobApplication{{ID: "a1", Status: domain.StatusPending}},
		updateErr: &api.Error{Status: 500, Message: "database unavailable"},
	}
	n := newStubNotifier(true)
	p := newTestApplicationsPage(t, stub, n)

	_, err := p.OpenStatusModal("a1")
	require.NoError(t, err)

	_, err = p.UpdateStatus(context.Background(), "a1", api.ApplicationUpdate{Status: ptr(domain.StatusHired)})
	require.Error(t, err)

	item, _ := p.List.Lookup("a1")
	assert.Equal(t, domain.StatusPending, item.Status, "rolled back")
	_, open := p.Modal()
	assert.True(t, open)
	assert.Equal(t, []string{"database unavailable"}, n.toasts)
}

func TestApplicationsRejectsRatingOutOfRange(t *testing.T) {
	stub := &stubApplicationsAPI{items: []domain.JobApplication{{ID: "a1"}}}
	p := newTestApplicationsPage(t, stub, newStubNotifier(true))

	_, err := p.UpdateStatus(context.Background(), "a1", api.ApplicationUpdate{Rating: ptr(9)})
	var ve *form.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, stub.sent)
}

func TestApplicationsOpenModalUnknownID(t *testing.T) {
	p := newTestApplicationsPage(t, &stubApplicationsAPI{}, newStubNotifier(true))
	_, err := p.OpenStatusModal("nope")
	assert.Error(t, err)
}

func TestApplicationsFiltersReachQuery(t *testing.T) {
	stub := &stubApplicationsAPI{}
	p := newTestApplicationsPage(t, stub, newStubNotifier(true))

	p.List.SetFilter("status", string(domain.StatusHired))
	p.List.Wait()
	assert.Equal(t, map[string]string{"status": "hired"}, stub.lastQuery.Filters)
	assert.Equal(t, 1, stub.lastQuery.Page)
}

func TestApplicationsExport(t *testing.T) {
	stub := &stubApplicationsAPI{items: []domain.JobApplication{
		{ID: "a1", FirstName: "Ravi", Status: domain.StatusOffered, Priority: domain.PriorityLow},
		{ID: "a2", FirstName: "Meera", Status: domain.StatusRejected, Priority: domain.PriorityHigh},
	}}
	p := newTestApplicationsPage(t, stub, newStubNotifier(true))

	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Applications")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Offered", rows[1][4])
	assert.Equal(t, "Rejected", rows[2][4])
}
