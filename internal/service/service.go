// Package service implements the admin pages. Each page composes the list,
// mutation, form and upload primitives over the REST client.
package service

import (
	"log/slog"
	"time"
)

// Notifier is the subset of notify.Console that the pages require.
type Notifier interface {
	Toast(msg string)
	Alert(msg string)
	Confirm(prompt string) bool
}

// Settings are the tunables shared by the pages.
type Settings struct {
	PageSize      int
	MediaPageSize int
	Debounce      time.Duration
	UploadHold    time.Duration
	// MediaBaseURL prefixes relative media URLs.
	MediaBaseURL string
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
