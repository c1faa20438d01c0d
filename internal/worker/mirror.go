package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jiaban/internal/amqp"
	"jiaban/internal/core"
	"jiaban/internal/schedule"
	"jiaban/internal/sheet"
)

// MirrorWorker copies day records from the local store to the Google
// sheet. The HTTP service writes to SQLite and publishes an event per
// touched date; the worker replays each date against the sheet.
type MirrorWorker struct {
	source sheet.Table
	dest   sheet.Table
}

func NewMirrorWorker(source, dest sheet.Table) *MirrorWorker {
	return &MirrorWorker{source: source, dest: dest}
}

// HandleDayChanged processes a single day changed message from AMQP.
func (w *MirrorWorker) HandleDayChanged(ctx context.Context, msg *amqp.DayChangedMessage) error {
	slog.InfoContext(ctx, "Processing day changed message",
		"date", msg.Date,
		"op", msg.Op)

	date, err := core.ParseDate(msg.Date)
	if err != nil {
		// A malformed date can never succeed on retry; drop it instead
		// of letting the requeue loop spin.
		slog.ErrorContext(ctx, "Dropping message with malformed date",
			"date", msg.Date, "error", err)
		return nil
	}

	if err := w.mirrorDate(ctx, date); err != nil {
		return fmt.Errorf("mirror date %s: %w", msg.Date, err)
	}

	slog.InfoContext(ctx, "Successfully mirrored day record",
		"date", msg.Date,
		"op", msg.Op)
	return nil
}

// StartupMirrorCheck replays every local day record against the sheet.
// This recovers from missed AMQP messages or worker downtime.
func (w *MirrorWorker) StartupMirrorCheck(ctx context.Context) error {
	dates, err := w.source.ColumnValues(ctx, core.ColDate)
	if err != nil {
		return fmt.Errorf("list local dates: %w", err)
	}

	if len(dates) <= 1 {
		slog.InfoContext(ctx, "No local day records found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found local day records on startup, mirroring...",
		"count", len(dates)-1)

	successCount := 0
	errorCount := 0

	for _, value := range dates[1:] {
		date, err := core.ParseDate(value)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparseable local date", "value", value)
			continue
		}
		if err := w.mirrorDate(ctx, date); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror day record during startup",
				"date", value, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup mirror completed",
		"total", len(dates)-1,
		"mirrored", successCount,
		"errors", errorCount)

	return nil
}

// mirrorDate reads one date's row from the local store and upserts it
// into the sheet. The sheet row is located by date, created in date
// order if missing, then overwritten cell by cell.
func (w *MirrorWorker) mirrorDate(ctx context.Context, date time.Time) error {
	key := date.Format(core.DateLayout)

	srcRow, found, err := w.source.Find(ctx, key, core.ColDate)
	if err != nil {
		return fmt.Errorf("find local row: %w", err)
	}
	if !found {
		// Deleted locally between publish and consume; nothing to copy.
		slog.WarnContext(ctx, "Local day record vanished, skipping", "date", key)
		return nil
	}

	values, err := w.source.Range(ctx, srcRow, core.ColDate, srcRow, core.ColMonthlyOvertime)
	if err != nil {
		return fmt.Errorf("read local row: %w", err)
	}
	if len(values) == 0 {
		return fmt.Errorf("local row %d is empty", srcRow)
	}
	row := values[0]

	destRow, _, err := schedule.LocateOrCreate(ctx, w.dest, date)
	if err != nil {
		return fmt.Errorf("locate sheet row: %w", err)
	}

	updates := make([]sheet.CellUpdate, 0, core.NumCols-1)
	for col := core.ColWeekday; col <= core.ColMonthlyOvertime; col++ {
		value := ""
		if col-1 < len(row) {
			value = row[col-1]
		}
		updates = append(updates, sheet.CellUpdate{Row: destRow, Col: col, Value: value})
	}
	if err := w.dest.BatchUpdate(ctx, updates); err != nil {
		return fmt.Errorf("write sheet row: %w", err)
	}
	return nil
}
