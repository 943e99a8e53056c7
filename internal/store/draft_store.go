package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Draft is the listing entry of a persisted form draft.
type Draft struct {
	Kind      string
	Key       string
	UpdatedAt time.Time
}

// DraftStore persists unsaved form state between runs, keyed by entity kind
// and by the entity id ("new" for create forms).
type DraftStore struct {
	db *sql.DB
}

func NewDraftStore(db *sql.DB) *DraftStore {
	return &DraftStore{db: db}
}

func (s *DraftStore) SaveDraft(ctx context.Context, kind, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drafts (kind, draft_key, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (kind, draft_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, kind, key, data)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// LoadDraft returns nil, nil when no draft exists.
func (s *DraftStore) LoadDraft(ctx context.Context, kind, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM drafts WHERE kind = ? AND draft_key = ?
	`, kind, key).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return data, nil
}

func (s *DraftStore) DeleteDraft(ctx context.Context, kind, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM drafts WHERE kind = ? AND draft_key = ?
	`, kind, key)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// List returns every draft, most recently saved first.
func (s *DraftStore) List(ctx context.Context) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, draft_key, updated_at FROM drafts ORDER BY updated_at DESC, kind ASC, draft_key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.Kind, &d.Key, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}
	return drafts, nil
}
