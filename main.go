package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"askdoc/internal/app"
	"askdoc/internal/config"
	"askdoc/internal/logger"
)

func main() {
	// Initialize structured logger
	handler := logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}

	slog.Info("dependencies ready", "vector_backend", cfg.VectorBackend)
	return app.New(cfg, deps).Run(ctx)
}
