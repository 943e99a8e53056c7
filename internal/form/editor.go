// Package form holds the create/edit editors: draft state seeded from
// defaults or an entity, client-side validation, and save handling.
package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/cmsadmin/internal/api"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Draft is a form state that can check itself before a save.
type Draft interface {
	Validate() error
}

// DraftRepository is the subset of store.DraftStore that Editor requires.
type DraftRepository interface {
	SaveDraft(ctx context.Context, kind, key string, data []byte) error
	LoadDraft(ctx context.Context, kind, key string) ([]byte, error)
	DeleteDraft(ctx context.Context, kind, key string) error
}

// SubmitFunc sends the draft. id is empty in create mode.
type SubmitFunc[D Draft] func(ctx context.Context, mode Mode, id string, d D) error

type EditorConfig[D Draft] struct {
	// Kind names the entity; it scopes persisted drafts.
	Kind   string
	Submit SubmitFunc[D]
	// OnSaved runs after a successful save, typically a list refresh.
	OnSaved func()
	// Fallback is shown when a save fails without a server message.
	Fallback string
	Drafts   DraftRepository
	Logger   *slog.Logger
}

// Editor is one open create or edit form. D is a pointer to a draft struct.
type Editor[D Draft] struct {
	Mode   Mode
	ID     string
	Draft  D
	Err    string
	Closed bool

	cfg EditorConfig[D]
}

func NewEditor[D Draft](cfg EditorConfig[D], mode Mode, id string, draft D) *Editor[D] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Fallback == "" {
		cfg.Fallback = "Failed to save " + cfg.Kind
	}
	return &Editor[D]{Mode: mode, ID: id, Draft: draft, cfg: cfg}
}

func (e *Editor[D]) draftKey() string {
	if e.Mode == ModeEdit {
		return e.ID
	}
	return "new"
}

// Resume replaces the draft with one persisted by an earlier failed save. It
// reports whether one was found.
func (e *Editor[D]) Resume(ctx context.Context) (bool, error) {
	if e.cfg.Drafts == nil {
		return false, nil
	}
	data, err := e.cfg.Drafts.LoadDraft(ctx, e.cfg.Kind, e.draftKey())
	if err != nil {
		return false, fmt.Errorf("failed to load draft: %w", err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, e.Draft); err != nil {
		return false, fmt.Errorf("failed to decode draft: %w", err)
	}
	e.cfg.Logger.Info("draft resumed", "kind", e.cfg.Kind, "key", e.draftKey())
	return true, nil
}

// Save validates and submits the draft. Validation failures never reach the
// server. On any failure Err is set, the draft is kept (and persisted when a
// repository is configured) and the error is returned. On success the editor
// closes and OnSaved runs.
func (e *Editor[D]) Save(ctx context.Context) error {
	if e.Closed {
		return errors.New("editor is closed")
	}
	if err := e.Draft.Validate(); err != nil {
		e.Err = err.Error()
		e.persist(ctx)
		return err
	}
	if err := e.cfg.Submit(ctx, e.Mode, e.ID, e.Draft); err != nil {
		e.Err = api.Message(err, e.cfg.Fallback)
		e.cfg.Logger.Error("save failed", "kind", e.cfg.Kind, "mode", e.Mode.String(), "id", e.ID, "error", err)
		e.persist(ctx)
		return err
	}

	e.Err = ""
	e.Closed = true
	e.cfg.Logger.Info("saved", "kind", e.cfg.Kind, "mode", e.Mode.String(), "id", e.ID)
	if e.cfg.Drafts != nil {
		if err := e.cfg.Drafts.DeleteDraft(ctx, e.cfg.Kind, e.draftKey()); err != nil {
			e.cfg.Logger.Warn("failed to delete draft", "kind", e.cfg.Kind, "error", err)
		}
	}
	if e.cfg.OnSaved != nil {
		e.cfg.OnSaved()
	}
	return nil
}

// Cancel closes the editor without saving.
func (e *Editor[D]) Cancel() { e.Closed = true }

func (e *Editor[D]) persist(ctx context.Context) {
	if e.cfg.Drafts == nil {
		return
	}
	data, err := json.Marshal(e.Draft)
	if err != nil {
		e.cfg.Logger.Warn("failed to encode draft", "kind", e.cfg.Kind, "error", err)
		return
	}
	if err := e.cfg.Drafts.SaveDraft(ctx, e.cfg.Kind, e.draftKey(), data); err != nil {
		e.cfg.Logger.Warn("failed to persist draft", "kind", e.cfg.Kind, "error", err)
	}
}
