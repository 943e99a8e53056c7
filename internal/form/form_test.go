package form

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
)

func TestListFieldNeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		src  []string
		op   func(l *ListField)
		want []string
	}{
		{"empty source gets one slot", nil, func(l *ListField) {}, []string{""}},
		{"remove last leaves empty slot", []string{"x"}, func(l *ListField) { l.Remove(0) }, []string{""}},
		{"remove middle", []string{"a", "b", "c"}, func(l *ListField) { l.Remove(1) }, []string{"a", "c"}},
		{"append adds empty slot", []string{"a"}, func(l *ListField) { l.Append() }, []string{"a", ""}},
		{"set by index", []string{"a", "b"}, func(l *ListField) { l.Set(1, "B") }, []string{"a", "B"}},
		{"set out of range is ignored", []string{"a"}, func(l *ListField) { l.Set(3, "z") }, []string{"a"}},
		{"zero value behaves like one slot", nil, func(l *ListField) { *l = ListField{}; l.Remove(0) }, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewListField(tt.src)
			tt.op(&l)
			assert.Equal(t, tt.want, l.Values())
		})
	}
}

func TestListFieldCleanAndJSON(t *testing.T) {
	l := NewListField([]string{"  Weld  ", "", "  ", "Read drawings"})
	assert.Equal(t, []string{"Weld", "Read drawings"}, l.Clean())

	empty := NewListField(nil)
	b, err := json.Marshal(struct {
		Items []string `json:"items"`
	}{empty.Clean()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(b))

	var back ListField
	require.NoError(t, json.Unmarshal([]byte(`[]`), &back))
	assert.Equal(t, []string{""}, back.Values())
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional("   "))
	require.NotNil(t, Optional(" x "))
	assert.Equal(t, "x", *Optional(" x "))
}

func TestJobPostingPayloadIsCleaned(t *testing.T) {
	d := NewJobPostingDraft()
	d.Title = "  Welder "
	d.Department = "Manufacturing"
	d.Location = "Pune"
	d.Description = "Join us"
	d.Requirements.Set(0, " 3 years ")
	d.Requirements.Append()
	require.NoError(t, d.Validate())

	b, err := json.Marshal(d.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "Welder",
		"department": "Manufacturing",
		"location": "Pune",
		"jobType": "full-time",
		"experienceLevel": null,
		"description": "Join us",
		"requirements": ["3 years"],
		"benefits": [],
		"skills": [],
		"isActive": true,
		"isHot": false
	}`, string(b))
}

func TestJobPostingValidation(t *testing.T) {
	d := NewJobPostingDraft()
	d.Title = "   "
	d.Location = "Pune"

	err := d.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"title", "department", "description"}, ve.Missing)
	assert.Contains(t, ve.Error(), "title, department, description")
}

func TestJobPostingDraftFromEntity(t *testing.T) {
	d := JobPostingDraftFrom(domain.JobPosting{Title: "Welder", Requirements: []string{"a", "b"}})
	assert.Equal(t, []string{"a", "b"}, d.Requirements.Values())
	assert.Equal(t, []string{""}, d.Skills.Values())
}

func TestLeadershipSocialCollapses(t *testing.T) {
	d := NewLeadershipDraft(3)
	d.Name = "Asha"
	d.Position = "CEO"
	d.Website = "   "
	assert.Nil(t, d.Payload().Social)

	b, err := json.Marshal(d.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Asha","position":"CEO","bio":null,"imageUrl":null,"status":"active","sortOrder":3,"social":null}`, string(b))

	d.Email = "asha@example.com"
	require.NotNil(t, d.Payload().Social)
	assert.Equal(t, "asha@example.com", d.Payload().Social.Email)
	assert.Empty(t, d.Payload().Social.Website)
}

func TestLeadershipDraftFromEntityFlattensSocial(t *testing.T) {
	d := LeadershipDraftFrom(domain.LeadershipMember{
		Name:   "Asha",
		Social: &domain.Social{LinkedIn: "https://linkedin.com/in/asha", Email: "a@example.com"},
	})
	assert.Equal(t, "https://linkedin.com/in/asha", d.LinkedIn)
	assert.Equal(t, "a@example.com", d.Email)
	assert.Empty(t, d.Website)
	assert.Equal(t, domain.MemberActive, d.Status)
}

func TestLeadershipValidationRejectsBadLinks(t *testing.T) {
	d := NewLeadershipDraft(0)
	d.Name = "Asha"
	d.Position = "CEO"
	d.Email = "not-an-email"
	d.Website = "example"

	var ve *ValidationError
	require.ErrorAs(t, d.Validate(), &ve)
	assert.Empty(t, ve.Missing)
	assert.ElementsMatch(t, []string{"website", "email"}, ve.Invalid)
}

// memDrafts is an in-memory DraftRepository.
type memDrafts struct {
	data map[string][]byte
}

func (m *memDrafts) SaveDraft(ctx context.Context, kind, key string, data []byte) error {
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[kind+"/"+key] = data
	return nil
}

func (m *memDrafts) LoadDraft(ctx context.Context, kind, key string) ([]byte, error) {
	return m.data[kind+"/"+key], nil
}

func (m *memDrafts) DeleteDraft(ctx context.Context, kind, key string) error {
	delete(m.data, kind+"/"+key)
	return nil
}

func TestEditorValidationFailureSendsNothing(t *testing.T) {
	drafts := &memDrafts{}
	sent := false
	e := NewEditor(EditorConfig[*JobPostingDraft]{
		Kind: "career",
		Submit: func(ctx context.Context, mode Mode, id string, d *JobPostingDraft) error {
			sent = true
			return nil
		},
		Drafts: drafts,
	}, ModeCreate, "", NewJobPostingDraft())
	e.Draft.Title = "Welder"

	err := e.Save(context.Background())
	require.Error(t, err)
	assert.False(t, sent)
	assert.False(t, e.Closed)
	assert.Equal(t, "Welder", e.Draft.Title, "entered data is kept")
	assert.Contains(t, e.Err, "department")
	assert.Contains(t, drafts.data, "career/new")
}

func TestEditorSaveFailureShowsServerMessage(t *testing.T) {
	e := NewEditor(EditorConfig[*LeadershipDraft]{
		Kind: "leader",
		Submit: func(ctx context.Context, mode Mode, id string, d *LeadershipDraft) error {
			return &api.Error{Status: 422, Message: "Name already taken"}
		},
	}, ModeEdit, "m1", LeadershipDraftFrom(domain.LeadershipMember{Name: "Asha", Position: "CEO"}))

	require.Error(t, e.Save(context.Background()))
	assert.Equal(t, "Name already taken", e.Err)
	assert.False(t, e.Closed)

	e.cfg.Submit = func(ctx context.Context, mode Mode, id string, d *LeadershipDraft) error {
		return errors.New("timeout")
	}
	require.Error(t, e.Save(context.Background()))
	assert.Equal(t, "Failed to save leader", e.Err)
}

func TestEditorSuccessClosesAndRefreshes(t *testing.T) {
	drafts := &memDrafts{}
	refreshed := 0
	var gotMode Mode
	var gotID string
	e := NewEditor(EditorConfig[*LeadershipDraft]{
		Kind: "leader",
		Submit: func(ctx context.Context, mode Mode, id string, d *LeadershipDraft) error {
			gotMode, gotID = mode, id
			return nil
		},
		OnSaved: func() { refreshed++ },
		Drafts:  drafts,
	}, ModeEdit, "m1", LeadershipDraftFrom(domain.LeadershipMember{Name: "Asha", Position: "CEO"}))
	require.NoError(t, drafts.SaveDraft(context.Background(), "leader", "m1", []byte(`{}`)))

	require.NoError(t, e.Save(context.Background()))
	assert.True(t, e.Closed)
	assert.Empty(t, e.Err)
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, ModeEdit, gotMode)
	assert.Equal(t, "m1", gotID)
	assert.NotContains(t, drafts.data, "leader/m1")

	assert.Error(t, e.Save(context.Background()), "closed editor does not save again")
}

func TestEditorResume(t *testing.T) {
	drafts := &memDrafts{}
	cfg := EditorConfig[*JobPostingDraft]{
		Kind:   "career",
		Submit: func(ctx context.Context, mode Mode, id string, d *JobPostingDraft) error { return errors.New("down") },
		Drafts: drafts,
	}
	first := NewEditor(cfg, ModeCreate, "", NewJobPostingDraft())
	first.Draft.Title = "Welder"
	first.Draft.Department = "Ops"
	first.Draft.Location = "Pune"
	first.Draft.Description = "d"
	first.Draft.Skills.Set(0, "TIG")
	require.Error(t, first.Save(context.Background()))

	second := NewEditor(cfg, ModeCreate, "", NewJobPostingDraft())
	found, err := second.Resume(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Welder", second.Draft.Title)
	assert.Equal(t, []string{"TIG"}, second.Draft.Skills.Values())

	other := NewEditor(cfg, ModeEdit, "j9", NewJobPostingDraft())
	found, err = other.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}
