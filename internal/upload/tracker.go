// Package upload sends a batch of files one at a time and reports progress
// across the whole batch.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// File is one file queued for upload. Open is called when its turn comes.
type File struct {
	Name     string
	Size     int64
	MimeType string
	Open     func() (io.ReadCloser, error)
}

// Progress is the batch state shown to the user. The zero value means no
// upload is running.
type Progress struct {
	Current  int
	Total    int
	FileName string
	Fraction float64
	Done     bool
}

// SendFunc uploads one file, reporting its own fraction sent.
type SendFunc[T any] func(ctx context.Context, f File, body io.Reader, progress func(float64)) (T, error)

// Notifier is the subset of notify.Console that Tracker requires.
type Notifier interface {
	Toast(msg string)
	Alert(msg string)
}

type Config[T any] struct {
	Send SendFunc[T]
	// Insert receives each uploaded item as soon as it is accepted.
	Insert func(T)
	// Resync reloads the collection once the batch has finished.
	Resync     func(ctx context.Context)
	OnProgress func(Progress)
	Notifier   Notifier
	// Hold is how long the completed state stays visible.
	Hold   time.Duration
	Logger *slog.Logger
}

type Tracker[T any] struct {
	cfg Config[T]
}

func NewTracker[T any](cfg Config[T]) *Tracker[T] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.OnProgress == nil {
		cfg.OnProgress = func(Progress) {}
	}
	return &Tracker[T]{cfg: cfg}
}

type Result[T any] struct {
	Uploaded []T
	Failed   []string
}

// Upload sends files strictly in order. A failed file does not stop the
// batch. Failures are reported together in one alert at the end.
func (t *Tracker[T]) Upload(ctx context.Context, files []File) Result[T] {
	var res Result[T]
	total := len(files)
	if total == 0 {
		return res
	}

	for i, f := range files {
		if ctx.Err() != nil {
			res.Failed = append(res.Failed, f.Name)
			continue
		}
		base := float64(i) / float64(total)
		t.cfg.OnProgress(Progress{Current: i + 1, Total: total, FileName: f.Name, Fraction: base})

		item, err := t.send(ctx, f, func(pf float64) {
			t.cfg.OnProgress(Progress{
				Current:  i + 1,
				Total:    total,
				FileName: f.Name,
				Fraction: (float64(i) + min(pf, 1)) / float64(total),
			})
		})
		if err != nil {
			t.cfg.Logger.Error("upload failed", "file_name", f.Name, "index", i+1, "error", err)
			res.Failed = append(res.Failed, f.Name)
			continue
		}
		t.cfg.Logger.Info("upload finished", "file_name", f.Name, "index", i+1, "total", total)
		res.Uploaded = append(res.Uploaded, item)
		if t.cfg.Insert != nil {
			t.cfg.Insert(item)
		}
	}

	t.cfg.OnProgress(Progress{Current: total, Total: total, Fraction: 1, Done: true})
	t.report(res)

	if t.cfg.Hold > 0 {
		timer := time.NewTimer(t.cfg.Hold)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}
	t.cfg.OnProgress(Progress{})

	if t.cfg.Resync != nil && ctx.Err() == nil {
		t.cfg.Resync(ctx)
	}
	return res
}

func (t *Tracker[T]) send(ctx context.Context, f File, progress func(float64)) (T, error) {
	var zero T
	rc, err := f.Open()
	if err != nil {
		return zero, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			t.cfg.Logger.Error("failed to close upload file", "file_name", f.Name, "error", err)
		}
	}()
	return t.cfg.Send(ctx, f, rc, progress)
}

func (t *Tracker[T]) report(res Result[T]) {
	if t.cfg.Notifier == nil {
		return
	}
	if n := len(res.Uploaded); n > 0 {
		noun := "files"
		if n == 1 {
			noun = "file"
		}
		t.cfg.Notifier.Toast(fmt.Sprintf("%d %s uploaded.", n, noun))
	}
	if len(res.Failed) > 0 {
		t.cfg.Notifier.Alert("Failed to upload: " + strings.Join(res.Failed, ", "))
	}
}
