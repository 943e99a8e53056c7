package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.APIBaseURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 50, cfg.MediaPageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 800*time.Millisecond, cfg.UploadHold)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("CMS_API_BASE_URL", "https://cms.example.com/api")
	t.Setenv("CMS_API_TOKEN", "tok-123")
	t.Setenv("CMS_PAGE_SIZE", "25")
	t.Setenv("CMS_SEARCH_DEBOUNCE", "1s")

	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, "https://cms.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "tok-123", cfg.APIToken)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, time.Second, cfg.Debounce)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CMS_EXPORT_DIR=/tmp/exports-from-file\nCMS_UPLOAD_DIR=/srv/uploads\n"), 0o600))

	// t.Setenv restores the original value; the unset lets the file supply it.
	t.Setenv("CMS_EXPORT_DIR", "")
	require.NoError(t, os.Unsetenv("CMS_EXPORT_DIR"))
	t.Setenv("CMS_UPLOAD_DIR", "/from/env")

	cfg, err := LoadFiles(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/exports-from-file", cfg.ExportDir)
	assert.Equal(t, "/from/env", cfg.UploadDir, "environment wins over the file")
}

func TestLoadBadDuration(t *testing.T) {
	t.Setenv("CMS_UPLOAD_HOLD", "soon")

	_, err := LoadFiles()
	assert.Error(t, err)
}
