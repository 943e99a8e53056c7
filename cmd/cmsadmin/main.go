package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/auth"
	"github.com/vbonduro/cmsadmin/internal/cli"
	"github.com/vbonduro/cmsadmin/internal/config"
	"github.com/vbonduro/cmsadmin/internal/db"
	"github.com/vbonduro/cmsadmin/internal/filestore/local"
	"github.com/vbonduro/cmsadmin/internal/logging"
	"github.com/vbonduro/cmsadmin/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}

	var console io.Writer
	if logging.ParseLevel(cfg.LogLevel) < 0 {
		console = os.Stderr
	}
	logger, cleanup, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: console})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: failed to initialize logger:", err)
		return 1
	}
	defer cleanup()

	tokens := auth.NewTokenStore(logger)
	tokens.Set(cfg.APIToken)
	client, err := api.New(cfg.APIBaseURL, tokens, api.WithTimeout(cfg.Timeout), api.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}

	app := &cli.App{Config: cfg, Client: client, Logger: logger, Out: os.Stdout, In: os.Stdin}

	if cfg.DraftsDB != "" {
		database, err := db.Open(cfg.DraftsDB)
		if err != nil {
			logger.Warn("drafts disabled: failed to open database", "path", cfg.DraftsDB, "error", err)
		} else {
			defer func() {
				if err := database.Close(); err != nil {
					logger.Error("failed to close database", "error", err)
				}
			}()
			app.Drafts = store.NewDraftStore(database)
		}
	}

	if app.Uploads, err = local.NewLocalFileStore(cfg.UploadDir); err != nil {
		logger.Warn("uploads disabled", "dir", cfg.UploadDir, "error", err)
		app.Uploads = nil
	}
	if app.Exports, err = local.NewLocalFileStore(cfg.ExportDir); err != nil {
		logger.Warn("exports disabled", "dir", cfg.ExportDir, "error", err)
		app.Exports = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Execute(ctx, app, os.Args[1:], os.Stderr)
}
