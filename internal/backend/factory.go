package backend

import (
	"context"
	"fmt"
	"log/slog"

	"jiaban/internal/amqp"
	"jiaban/internal/sheet"
	gsheet "jiaban/internal/sheet/google"
	"jiaban/internal/sheet/memory"
	"jiaban/internal/sheet/sqlite"
)

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*Result, error)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(cfg)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, cfg)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(cfg Config) (*Result, error) {
	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	// AMQP is optional: without it the sheet mirror just never runs.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without mirror events", "error", err)
			events = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", events != nil)

	cleanup := func() error {
		if events != nil {
			if err := events.Close(); err != nil {
				f.logger.Warn("Failed to close AMQP client", "error", err)
			}
		}
		return store.Close()
	}

	return &Result{
		Table:   store,
		Events:  events,
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, cfg Config) (*Result, error) {
	cli, err := gsheet.NewClient(ctx, gsheet.Config{
		SpreadsheetID:     cfg.SpreadsheetID,
		SheetName:         cfg.SheetName,
		CredentialsBase64: cfg.CredentialsBase64,
		CredentialsJSON:   cfg.CredentialsJSON,
		CredentialsFile:   cfg.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"spreadsheet_id", cfg.SpreadsheetID,
		"sheet_name", cfg.SheetName)

	return &Result{
		Table:   cli,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.New(sheet.DayHeader)

	f.logger.Info("Initialized memory backend")

	return &Result{
		Table:   store,
		Cleanup: nil,
	}, nil
}
