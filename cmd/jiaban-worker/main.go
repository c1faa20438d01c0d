package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"jiaban/internal/amqp"
	"jiaban/internal/config"
	gsheet "jiaban/internal/sheet/google"
	"jiaban/internal/sheet/sqlite"
	"jiaban/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting jiaban-worker")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required: the worker mirrors into the sheet")
		os.Exit(1)
	}

	// Local store is the mirror source
	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	// Google sheet is the mirror destination
	sheetClient, err := gsheet.NewClient(context.Background(), gsheet.Config{
		SpreadsheetID:     cfg.GoogleSpreadsheetID,
		SheetName:         cfg.GoogleSheetName,
		CredentialsBase64: cfg.GoogleCredentialsBase64,
		CredentialsJSON:   cfg.GoogleCredentialsJSON,
		CredentialsFile:   cfg.GoogleCredentialsFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	// AMQP client for consuming day changed messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirror := worker.NewMirrorWorker(store, sheetClient)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// On startup, replay any day records the worker may have missed
	logger.Info("Performing startup mirror check...")
	if err := mirror.StartupMirrorCheck(ctx); err != nil {
		logger.Error("Failed startup mirror check", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeDayChanged(gctx, func(msg *amqp.DayChangedMessage) error {
			return mirror.HandleDayChanged(gctx, msg)
		})
	})

	logger.Info("Worker running, waiting for day changed messages")

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
