package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL   string `env:"CMS_API_BASE_URL" envDefault:"http://localhost:5000/api"`
	APIToken     string `env:"CMS_API_TOKEN"`
	MediaBaseURL string `env:"CMS_MEDIA_BASE_URL"`

	PageSize      int           `env:"CMS_PAGE_SIZE" envDefault:"10"`
	MediaPageSize int           `env:"CMS_MEDIA_PAGE_SIZE" envDefault:"50"`
	Debounce      time.Duration `env:"CMS_SEARCH_DEBOUNCE" envDefault:"250ms"`
	UploadHold    time.Duration `env:"CMS_UPLOAD_HOLD" envDefault:"800ms"`
	DashRefresh   time.Duration `env:"CMS_DASHBOARD_REFRESH" envDefault:"60s"`
	Timeout       time.Duration `env:"CMS_REQUEST_TIMEOUT" envDefault:"30s"`

	DraftsDB  string `env:"CMS_DRAFTS_DB" envDefault:"cmsadmin.db"`
	ExportDir string `env:"CMS_EXPORT_DIR" envDefault:"exports"`
	UploadDir string `env:"CMS_UPLOAD_DIR" envDefault:"."`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// Load reads .env and .env.local when present, then the environment.
// Variables already set in the environment win over both files.
func Load() (*Config, error) {
	return LoadFiles(".env", ".env.local")
}

// LoadFiles is Load with explicit env files. Missing files are skipped.
func LoadFiles(files ...string) (*Config, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", f, err)
		}
		existing = append(existing, f)
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
