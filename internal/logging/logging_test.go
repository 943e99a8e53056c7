package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWritesJSONToConsoleAndFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "cmsadmin.log")
	logger, cleanup, err := New(Options{Level: "warn", File: path, Console: &console})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("request failed", "status", 502)
	cleanup()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(console.Bytes(), &rec))
	assert.Equal(t, "request failed", rec["msg"])
	assert.EqualValues(t, 502, rec["status"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, console.String(), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewBadFile(t *testing.T) {
	_, _, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
