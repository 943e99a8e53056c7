// Package reorder keeps a locally ordered list that the user rearranges by
// dragging. The order changes on every hover; it is persisted on drop.
package reorder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// PersistFunc saves the full order of ids.
type PersistFunc func(ctx context.Context, ids []string) error

// ReloadFunc fetches the authoritative order from the server.
type ReloadFunc[T any] func(ctx context.Context) ([]T, error)

type List[T any] struct {
	idOf    func(T) string
	persist PersistFunc
	reload  ReloadFunc[T]
	logger  *slog.Logger

	mu       sync.Mutex
	items    []T
	dragging string
}

func New[T any](idOf func(T) string, persist PersistFunc, reload ReloadFunc[T], logger *slog.Logger) *List[T] {
	return &List[T]{idOf: idOf, persist: persist, reload: reload, logger: logger}
}

// Load replaces the list with items as the server returned them.
func (l *List[T]) Load(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.Clone(items)
	l.dragging = ""
}

func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

func (l *List[T]) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idsLocked()
}

func (l *List[T]) idsLocked() []string {
	ids := make([]string, len(l.items))
	for i, v := range l.items {
		ids[i] = l.idOf(v)
	}
	return ids
}

// DragStart records the dragged item. It reports false for an unknown id.
func (l *List[T]) DragStart(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexLocked(id) < 0 {
		return false
	}
	l.dragging = id
	return true
}

// DragOver moves the dragged item to the target's position. Hovering over the
// dragged item itself, or with nothing dragged, changes nothing.
func (l *List[T]) DragOver(targetID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dragging == "" || l.dragging == targetID {
		return
	}
	from := l.indexLocked(l.dragging)
	to := l.indexLocked(targetID)
	if from < 0 || to < 0 {
		return
	}
	item := l.items[from]
	l.items = slices.Delete(l.items, from, from+1)
	l.items = slices.Insert(l.items, to, item)
}

// DragEnd persists the current order. If persisting fails the list is
// reloaded from the server and the persist error is returned.
func (l *List[T]) DragEnd(ctx context.Context) error {
	l.mu.Lock()
	if l.dragging == "" {
		l.mu.Unlock()
		return nil
	}
	l.dragging = ""
	ids := l.idsLocked()
	l.mu.Unlock()

	err := l.persist(ctx, ids)
	if err == nil {
		l.logger.Info("order saved", "count", len(ids))
		return nil
	}
	l.logger.Error("failed to save order, reloading", "error", err)

	items, rerr := l.reload(ctx)
	if rerr != nil {
		l.logger.Error("failed to reload order", "error", rerr)
		return fmt.Errorf("failed to save order: %w", err)
	}
	l.Load(items)
	return fmt.Errorf("failed to save order: %w", err)
}

// Move drags id over targetID and drops it, in one call.
func (l *List[T]) Move(ctx context.Context, id, targetID string) error {
	l.mu.Lock()
	for _, want := range []string{id, targetID} {
		if l.indexLocked(want) < 0 {
			l.mu.Unlock()
			return fmt.Errorf("unknown id %q", want)
		}
	}
	l.mu.Unlock()

	l.DragStart(id)
	l.DragOver(targetID)
	return l.DragEnd(ctx)
}

func (l *List[T]) indexLocked(id string) int {
	return slices.IndexFunc(l.items, func(v T) bool { return l.idOf(v) == id })
}

func (l *List[T]) Lookup(id string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Replace swaps the item in place; its position is kept.
func (l *List[T]) Replace(id string, v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return false
	}
	l.items[i] = v
	return true
}

func (l *List[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	if l.dragging == id {
		l.dragging = ""
	}
	return true
}
