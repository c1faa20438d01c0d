package schedule

import (
	"context"
	"fmt"
	"time"

	"jiaban/internal/core"
	"jiaban/internal/sheet"
)

// LocateOrCreate returns the row index holding the record for date,
// creating a default record at the order-preserving position if the
// date has no row yet. Created reports whether a row was inserted.
//
// Row 1 is the header; the scan starts below it. Existing rows whose
// date cell does not parse are skipped, not treated as errors, so one
// hand-edited cell cannot wedge the whole schedule.
func LocateOrCreate(ctx context.Context, t sheet.Table, date time.Time) (row int, created bool, err error) {
	key := date.Format(core.DateLayout)

	row, found, err := t.Find(ctx, key, core.ColDate)
	if err != nil {
		return 0, false, fmt.Errorf("find day %s: %w", key, err)
	}
	if found {
		return row, false, nil
	}

	dates, err := t.ColumnValues(ctx, core.ColDate)
	if err != nil {
		return 0, false, fmt.Errorf("read date column: %w", err)
	}

	insertAt := len(dates) + 1 // default: append after the last row
	for i := 1; i < len(dates); i++ {
		existing, err := core.ParseDate(dates[i])
		if err != nil {
			continue
		}
		if date.Before(existing) {
			insertAt = i + 1
			break
		}
	}

	rec := core.NewDefaultRecord(date)
	if err := t.InsertRow(ctx, rec.Row(), insertAt); err != nil {
		return 0, false, fmt.Errorf("insert day %s at row %d: %w", key, insertAt, err)
	}
	return insertAt, true, nil
}
