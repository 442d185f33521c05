// Package main is the entry point for the WattWise server.
//
// The main package is kept minimal — its job is to:
//  1. Load configuration (env vars, optionally a .env file)
//  2. Create the logger
//  3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). That separation keeps the app testable and
// its components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wattwise/wattwise/internal/config"
	"github.com/wattwise/wattwise/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// The SQLite file lives under a data directory that may not exist
	// yet on first run.
	if cfg.Store == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(cfg.DBPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(*cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
