package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/cmsadmin/internal/db"
)

func newTestDraftStore(t *testing.T) *DraftStore {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return NewDraftStore(d)
}

func TestDraftSaveAndLoad(t *testing.T) {
	s := newTestDraftStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "career", "new", []byte(`{"title":"Welder"}`)))

	data, err := s.LoadDraft(ctx, "career", "new")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Welder"}`, string(data))
}

func TestDraftSaveOverwrites(t *testing.T) {
	s := newTestDraftStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "leader", "m1", []byte(`{"name":"A"}`)))
	require.NoError(t, s.SaveDraft(ctx, "leader", "m1", []byte(`{"name":"B"}`)))

	data, err := s.LoadDraft(ctx, "leader", "m1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"B"}`, string(data))

	drafts, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestDraftLoadNotFound(t *testing.T) {
	s := newTestDraftStore(t)

	data, err := s.LoadDraft(context.Background(), "career", "missing")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDraftKeysAreScopedByKind(t *testing.T) {
	s := newTestDraftStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "career", "new", []byte(`{"title":"x"}`)))
	require.NoError(t, s.SaveDraft(ctx, "leader", "new", []byte(`{"name":"y"}`)))

	require.NoError(t, s.DeleteDraft(ctx, "career", "new"))

	data, err := s.LoadDraft(ctx, "career", "new")
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = s.LoadDraft(ctx, "leader", "new")
	require.NoError(t, err)
	assert.NotNil(t, data)

	drafts, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "leader", drafts[0].Kind)
	assert.Equal(t, "new", drafts[0].Key)
	assert.False(t, drafts[0].UpdatedAt.IsZero())
}

func TestDraftDeleteMissingIsNoop(t *testing.T) {
	s := newTestDraftStore(t)
	assert.NoError(t, s.DeleteDraft(context.Background(), "career", "nope"))
}
