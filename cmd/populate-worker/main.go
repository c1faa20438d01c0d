package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"jiaban/internal/backend"
	"jiaban/internal/config"
	"jiaban/internal/core"
	"jiaban/internal/schedule"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting populate-worker")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	var events schedule.Publisher
	if result.Events != nil {
		events = result.Events
	}
	svc := schedule.New(result.Table, events)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Populate worker configured",
		"interval", cfg.PopulateInterval,
		"backend", cfg.DataBackend)

	// Run initial population on startup
	populate(ctx, svc, time.Now())

	ticker := time.NewTicker(cfg.PopulateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Populate-worker shutdown complete")
			return
		case now := <-ticker.C:
			populate(ctx, svc, now)
		}
	}
}

// populate fills the current month and, in its final week, the next
// month as well so the schedule never runs dry.
func populate(ctx context.Context, svc *schedule.Service, now time.Time) {
	months := []time.Time{now}
	if now.Day() > core.DaysIn(now.Year(), now.Month())-7 {
		months = append(months, time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.Local))
	}

	for _, m := range months {
		res, err := svc.PopulateMonth(ctx, m.Year(), int(m.Month()))
		if err != nil {
			slog.ErrorContext(ctx, "Month population failed",
				"year", m.Year(), "month", int(m.Month()), "error", err)
			continue
		}
		if res.Created > 0 {
			slog.InfoContext(ctx, "Populated month",
				"year", m.Year(), "month", int(m.Month()), "created", res.Created)
		}
	}
}
