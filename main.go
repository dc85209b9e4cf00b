package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bikeshare/pkg/catalog"
	"bikeshare/pkg/config"
	"bikeshare/pkg/loader"
	"bikeshare/pkg/logging"
	"bikeshare/pkg/metrics"
	"bikeshare/pkg/profiling"
	"bikeshare/pkg/prompt"
	"bikeshare/pkg/session"
	"bikeshare/pkg/source"
	"bikeshare/pkg/tracing"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	// Logs go to stderr; stdout belongs to the prompts and reports
	logging.InitLogging(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	shutdownTracing, err := tracing.InitTracing(ctx)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		return 1
	}
	defer shutdownTracing()

	// Initialize metrics
	shutdownMetrics, err := metrics.InitMetrics(ctx)
	if err != nil {
		slog.Error("Failed to initialize metrics", "error", err)
		return 1
	}
	defer shutdownMetrics()

	// Initialize profiling
	shutdownProfiling, err := profiling.InitProfiling()
	if err != nil {
		slog.Error("Failed to initialize profiling", "error", err)
		return 1
	}
	defer shutdownProfiling()

	cat := catalog.Default(cfg.DataDir)
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath, cfg.DataDir)
		if err != nil {
			slog.Error("Failed to load city catalog", "path", cfg.CatalogPath, "error", err)
			return 1
		}
	}

	sess, err := session.New(session.Config{
		In:      os.Stdin,
		Out:     os.Stdout,
		Catalog: cat,
		Loader: loader.New(cat, source.NewClient(cfg.FetchTimeout), loader.Options{
			LegacyDayFilter: cfg.LegacyDayFilter,
		}),
		PageSize:   cfg.PageSize,
		ExportPath: cfg.ExportPath,
	})
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		return 1
	}

	slog.Info("Starting bikeshare explorer",
		"data_dir", cfg.DataDir,
		"cities", cat.Cities(),
		"legacy_day_filter", cfg.LegacyDayFilter,
	)

	// Start session in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- sess.Run(ctx)
	}()

	// Wait for shutdown signal or the session to end. A blocked stdin read
	// cannot be interrupted, so a signal exits without waiting for it.
	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
		fmt.Fprintln(os.Stdout)
		return 0
	case err := <-errChan:
		switch {
		case err == nil, errors.Is(err, prompt.ErrInputClosed):
			return 0
		case errors.Is(err, context.Canceled):
			return 0
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			slog.Error("Session failed", "error", err)
			return 1
		}
	}
}
