// Package mutate applies user actions to a loaded list before the server
// confirms them, and undoes them when the server refuses.
package mutate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/cmsadmin/internal/api"
)

var (
	// ErrCancelled is returned when the user declines a confirmation prompt.
	ErrCancelled = errors.New("cancelled")
	// ErrNotFound is returned when the target id is not in the local list.
	ErrNotFound = errors.New("item not loaded")
)

// Collection is the subset of listing.Controller that Mutator requires.
type Collection[T any] interface {
	Lookup(id string) (T, bool)
	Replace(id string, v T) bool
	Remove(id string) bool
}

// Notifier is the subset of notify.Console that Mutator requires.
type Notifier interface {
	Toast(msg string)
	Alert(msg string)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type Mutator[T any] struct {
	items   Collection[T]
	notify  Notifier
	confirm Confirmer
	logger  *slog.Logger
}

func New[T any](items Collection[T], notifier Notifier, confirmer Confirmer, logger *slog.Logger) *Mutator[T] {
	return &Mutator[T]{items: items, notify: notifier, confirm: confirmer, logger: logger}
}

// Apply shows patch(current) at once, then calls send with the optimistic
// value. A non-nil entity from send replaces the optimistic value; nil keeps
// it. On failure the previous value is put back and a toast shows the
// server's message or failMsg.
func (m *Mutator[T]) Apply(ctx context.Context, id string, patch func(T) T, send func(context.Context, T) (*T, error), failMsg string) (T, error) {
	prev, ok := m.items.Lookup(id)
	if !ok {
		return prev, fmt.Errorf("failed to update %s: %w", id, ErrNotFound)
	}
	next := patch(prev)
	m.items.Replace(id, next)

	got, err := send(ctx, next)
	if err != nil {
		m.items.Replace(id, prev)
		m.logger.Warn("optimistic update rolled back", "id", id, "error", err)
		m.notify.Toast(api.Message(err, failMsg))
		return prev, err
	}
	if got != nil {
		m.items.Replace(id, *got)
		return *got, nil
	}
	return next, nil
}

// Delete asks prompt first and sends nothing when the user declines. The item
// leaves the list only after send succeeds; a failure raises an alert.
func (m *Mutator[T]) Delete(ctx context.Context, id, prompt string, send func(context.Context) error, failMsg string) error {
	if !m.confirm.Confirm(prompt) {
		return ErrCancelled
	}
	if err := send(ctx); err != nil {
		m.logger.Error("delete failed", "id", id, "error", err)
		m.notify.Alert(api.Message(err, failMsg))
		return err
	}
	m.items.Remove(id)
	m.logger.Info("deleted", "id", id)
	return nil
}

// BulkResult lists the ids each attempt ended with.
type BulkResult struct {
	Deleted []string
	Failed  []string
	Summary string
}

// BulkDelete asks once, then deletes each id in turn. Failures do not stop the
// batch. Only ids whose delete succeeded leave the list. One summary message
// is shown at the end; noun is the singular item name.
func (m *Mutator[T]) BulkDelete(ctx context.Context, ids []string, prompt string, send func(context.Context, string) error, noun string) (BulkResult, error) {
	var res BulkResult
	if len(ids) == 0 {
		return res, nil
	}
	if !m.confirm.Confirm(prompt) {
		return res, ErrCancelled
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, id)
			continue
		}
		if err := send(ctx, id); err != nil {
			m.logger.Error("bulk delete item failed", "id", id, "error", err)
			res.Failed = append(res.Failed, id)
			continue
		}
		m.items.Remove(id)
		res.Deleted = append(res.Deleted, id)
	}

	res.Summary = fmt.Sprintf("%s deleted.", countOf(len(res.Deleted), noun))
	if len(res.Failed) > 0 {
		res.Summary = fmt.Sprintf("%s deleted, %d failed.", countOf(len(res.Deleted), noun), len(res.Failed))
		m.notify.Alert(res.Summary)
	} else {
		m.notify.Toast(res.Summary)
	}
	m.logger.Info("bulk delete finished", "deleted", len(res.Deleted), "failed", len(res.Failed))
	return res, nil
}

func countOf(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
