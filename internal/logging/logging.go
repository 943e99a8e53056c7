package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the log sinks. With neither Console nor File set, records
// are discarded.
type Options struct {
	Level string
	File  string
	// Console receives records as well, typically os.Stderr when the CLI runs
	// verbose.
	Console io.Writer
}

// New creates a *slog.Logger writing JSON to the configured sinks and sets it
// as the slog default. The returned cleanup func closes the log file if one
// was opened; callers must defer it.
func New(opts Options) (*slog.Logger, func(), error) {
	var writers []io.Writer
	cleanup := func() {}

	if opts.Console != nil {
		writers = append(writers, opts.Console)
	}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		cleanup = func() { _ = f.Close() }
	}

	w := io.Discard
	if len(writers) > 0 {
		w = io.MultiWriter(writers...)
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// ParseLevel maps debug, warn and error to their levels; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
