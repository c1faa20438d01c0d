package worker

import (
	"context"
	"testing"
	"time"

	"jiaban/internal/amqp"
	"jiaban/internal/sheet"
	"jiaban/internal/sheet/memory"
)

func TestHandleDayChangedCopiesRow(t *testing.T) {
	ctx := context.Background()
	source := memory.New(sheet.DayHeader)
	dest := memory.New(sheet.DayHeader)
	_ = source.AppendRows(ctx, [][]string{
		{"2024-06-10", "星期一", "是", "18:00:00", "19:30:00", "1.50", "1.50"},
	})

	w := NewMirrorWorker(source, dest)
	msg := &amqp.DayChangedMessage{Date: "2024-06-10", Op: amqp.OpClockOut, Timestamp: time.Now()}
	if err := w.HandleDayChanged(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := dest.Rows()
	if len(rows) != 2 {
		t.Fatalf("dest rows: %d", len(rows))
	}
	want := []string{"2024-06-10", "星期一", "是", "18:00:00", "19:30:00", "1.50", "1.50"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Fatalf("col %d: got %q want %q", i+1, rows[1][i], v)
		}
	}
}

func TestHandleDayChangedOverwrites(t *testing.T) {
	ctx := context.Background()
	source := memory.New(sheet.DayHeader)
	dest := memory.New(sheet.DayHeader)
	// Stale copy on the sheet.
	_ = dest.AppendRows(ctx, [][]string{
		{"2024-06-10", "星期一", "是", "18:00:00", "19:00:00", "1.00", "1.00"},
	})
	_ = source.AppendRows(ctx, [][]string{
		{"2024-06-10", "星期一", "是", "18:00:00", "20:00:00", "2.00", "2.00"},
	})

	w := NewMirrorWorker(source, dest)
	msg := &amqp.DayChangedMessage{Date: "2024-06-10", Op: amqp.OpClockOut, Timestamp: time.Now()}
	if err := w.HandleDayChanged(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := dest.Rows()
	if len(rows) != 2 {
		t.Fatalf("overwrite must not add a row: %d", len(rows))
	}
	if rows[1][4] != "20:00:00" || rows[1][5] != "2.00" {
		t.Fatalf("stale row not overwritten: %v", rows[1])
	}
}

func TestHandleDayChangedMissingLocalRow(t *testing.T) {
	ctx := context.Background()
	w := NewMirrorWorker(memory.New(sheet.DayHeader), memory.New(sheet.DayHeader))
	msg := &amqp.DayChangedMessage{Date: "2024-06-10", Op: amqp.OpScheduleUpdate, Timestamp: time.Now()}
	// A vanished local row is skipped, not retried.
	if err := w.HandleDayChanged(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestHandleDayChangedBadDateIsDropped(t *testing.T) {
	dest := memory.New(sheet.DayHeader)
	w := NewMirrorWorker(memory.New(sheet.DayHeader), dest)
	msg := &amqp.DayChangedMessage{Date: "not-a-date", Op: amqp.OpScheduleUpdate, Timestamp: time.Now()}
	// Malformed dates can never succeed on retry; the handler drops
	// them rather than requeueing forever.
	if err := w.HandleDayChanged(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(dest.Rows()) != 1 {
		t.Fatalf("dest modified: %v", dest.Rows())
	}
}

func TestStartupMirrorCheck(t *testing.T) {
	ctx := context.Background()
	source := memory.New(sheet.DayHeader)
	dest := memory.New(sheet.DayHeader)
	_ = source.AppendRows(ctx, [][]string{
		{"2024-06-01", "星期六", "否", "18:00:00"},
		{"坏掉的行", "", "", ""},
		{"2024-06-03", "星期一", "是", "18:00:00", "19:30:00", "1.50", "1.50"},
	})

	w := NewMirrorWorker(source, dest)
	if err := w.StartupMirrorCheck(ctx); err != nil {
		t.Fatalf("startup: %v", err)
	}

	rows := dest.Rows()
	if len(rows) != 3 { // header + two valid dates, junk skipped
		t.Fatalf("dest rows: %d", len(rows))
	}
	if rows[1][0] != "2024-06-01" || rows[2][0] != "2024-06-03" {
		t.Fatalf("dest order: %v / %v", rows[1], rows[2])
	}
}
