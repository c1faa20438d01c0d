// Package schedule implements the user-facing schedule operations on
// top of a day Table: schedule updates, clock-out, the daily suggestion
// and month population.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jiaban/internal/amqp"
	"jiaban/internal/core"
	"jiaban/internal/sheet"
)

// Publisher emits day-changed events so a mirror worker can keep a
// second store in sync. Optional.
type Publisher interface {
	PublishDayChanged(ctx context.Context, date, op string) error
}

type Service struct {
	table  sheet.Table
	events Publisher
	now    func() time.Time
}

// New creates a schedule service. events may be nil; publishing is then
// skipped.
func New(table sheet.Table, events Publisher) *Service {
	return &Service{table: table, events: events, now: time.Now}
}

// UpdateSchedule flags a date as workday or rest day, creating the
// day's row if needed. Idempotent.
func (s *Service) UpdateSchedule(ctx context.Context, dateStr string, workday bool) (UpdateResult, error) {
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return UpdateResult{}, err
	}

	row, _, err := LocateOrCreate(ctx, s.table, date)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := s.table.UpdateCell(ctx, row, core.ColWorkday, core.WorkdayToken(workday)); err != nil {
		return UpdateResult{}, fmt.Errorf("update workday flag for %s: %w", dateStr, err)
	}

	s.publish(ctx, date, amqp.OpScheduleUpdate)
	return UpdateResult{Date: date, Workday: workday}, nil
}

// ClockOut records now as today's off-work time, recomputes today's and
// the month's overtime, and projects a suggestion over the remaining
// workdays of the month. Repeated calls on the same day overwrite the
// earlier record: last write wins, and the monthly total is recomputed
// from scratch, never incremented.
func (s *Service) ClockOut(ctx context.Context) (ClockOutResult, error) {
	now := s.now()
	today := core.DateOf(now)

	row, _, err := LocateOrCreate(ctx, s.table, today)
	if err != nil {
		return ClockOutResult{}, err
	}

	cells, err := s.table.Range(ctx, row, core.ColWorkday, row, core.ColStandardOff)
	if err != nil {
		return ClockOutResult{}, fmt.Errorf("read day row %d: %w", row, err)
	}
	if !core.ParseWorkday(cells[0][0]) {
		// A rest day is a refusal, not an error; nothing is written.
		return ClockOutResult{Refused: true, Date: today}, nil
	}

	standard := core.StandardOff
	if c, err := core.ParseClock(cells[0][1]); err == nil {
		standard = c
	}

	actual := core.ClockOf(now)
	daily := core.DailyOvertime(actual, standard)

	entries, days, err := s.monthState(ctx)
	if err != nil {
		return ClockOutResult{}, err
	}

	// The monthly total must see today's fresh value, which is not
	// persisted yet: substitute it for whatever the sheet still holds.
	patched := false
	for i := range entries {
		if entries[i].Date.Equal(today) {
			entries[i].Hours = daily
			patched = true
		}
	}
	if !patched {
		entries = append(entries, core.OvertimeEntry{Date: today, Hours: daily})
	}
	total := core.MonthlyOvertime(entries, today)

	err = s.table.BatchUpdate(ctx, []sheet.CellUpdate{
		{Row: row, Col: core.ColActualOff, Value: actual.String()},
		{Row: row, Col: core.ColDailyOvertime, Value: core.FormatHours(daily)},
		{Row: row, Col: core.ColMonthlyOvertime, Value: core.FormatHours(total)},
	})
	if err != nil {
		return ClockOutResult{}, fmt.Errorf("write clock-out for %s: %w", today.Format(core.DateLayout), err)
	}

	// Today is closed out, so the projection divides over future
	// workdays only.
	proj := core.Project(total, core.FutureWorkdays(days, today))

	s.publish(ctx, today, amqp.OpClockOut)
	return ClockOutResult{
		Date:       today,
		OffTime:    actual,
		Daily:      daily,
		MonthTotal: total,
		Projection: proj,
	}, nil
}

// DailySuggestion computes today's advisory off time. It never writes.
func (s *Service) DailySuggestion(ctx context.Context) (SuggestionResult, error) {
	now := s.now()
	today := core.DateOf(now)

	// Weekends short-circuit before any store access.
	if !core.IsDefaultWorkday(today) {
		return SuggestionResult{Kind: SuggestWeekend}, nil
	}

	key := today.Format(core.DateLayout)
	row, found, err := s.table.Find(ctx, key, core.ColDate)
	if err != nil {
		return SuggestionResult{}, fmt.Errorf("find day %s: %w", key, err)
	}
	if !found {
		return SuggestionResult{Kind: SuggestNotPlanned}, nil
	}

	cells, err := s.table.Range(ctx, row, core.ColWorkday, row, core.ColWorkday)
	if err != nil {
		return SuggestionResult{}, fmt.Errorf("read day row %d: %w", row, err)
	}
	if !core.ParseWorkday(cells[0][0]) {
		return SuggestionResult{Kind: SuggestRestDay}, nil
	}

	entries, days, err := s.monthState(ctx)
	if err != nil {
		return SuggestionResult{}, err
	}
	// Stored values as-is, today's included: this path has no fresher
	// value to substitute.
	total := core.MonthlyOvertime(entries, today)

	// Today is still pending, so it shares in the remaining budget:
	// future workdays plus one.
	proj := core.Project(total, core.FutureWorkdays(days, today)+1)
	return SuggestionResult{Kind: SuggestProjection, Projection: proj}, nil
}

// PopulateMonth appends default rows for every day of the month that
// has no row yet. Existing dates are never touched; creating nothing is
// a valid outcome.
func (s *Service) PopulateMonth(ctx context.Context, year, month int) (PopulateResult, error) {
	if month < 1 || month > 12 {
		return PopulateResult{}, fmt.Errorf("%w: %d", core.ErrInvalidMonth, month)
	}

	dates, err := s.table.ColumnValues(ctx, core.ColDate)
	if err != nil {
		return PopulateResult{}, fmt.Errorf("read date column: %w", err)
	}
	existing := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		existing[d] = struct{}{}
	}

	m := time.Month(month)
	var rows [][]string
	var created []time.Time
	for day := 1; day <= core.DaysIn(year, m); day++ {
		date := time.Date(year, m, day, 0, 0, 0, 0, time.Local)
		if _, ok := existing[date.Format(core.DateLayout)]; ok {
			continue
		}
		rows = append(rows, core.NewDefaultRecord(date).Row())
		created = append(created, date)
	}

	if len(rows) == 0 {
		return PopulateResult{Year: year, Month: m, Created: 0}, nil
	}
	if err := s.table.AppendRows(ctx, rows); err != nil {
		return PopulateResult{}, fmt.Errorf("append %d rows for %d-%02d: %w", len(rows), year, month, err)
	}

	for _, date := range created {
		s.publish(ctx, date, amqp.OpPopulate)
	}
	return PopulateResult{Year: year, Month: m, Created: len(rows)}, nil
}

// monthState reads the date, workday and daily-overtime columns once
// and decodes them into aggregation entries and day records. Rows with
// unparseable dates are skipped; blank or junk overtime cells count as
// zero.
func (s *Service) monthState(ctx context.Context) ([]core.OvertimeEntry, []core.DayRecord, error) {
	dates, err := s.table.ColumnValues(ctx, core.ColDate)
	if err != nil {
		return nil, nil, fmt.Errorf("read date column: %w", err)
	}
	flags, err := s.table.ColumnValues(ctx, core.ColWorkday)
	if err != nil {
		return nil, nil, fmt.Errorf("read workday column: %w", err)
	}
	hours, err := s.table.ColumnValues(ctx, core.ColDailyOvertime)
	if err != nil {
		return nil, nil, fmt.Errorf("read overtime column: %w", err)
	}

	var entries []core.OvertimeEntry
	var days []core.DayRecord
	for i := 1; i < len(dates); i++ {
		date, err := core.ParseDate(dates[i])
		if err != nil {
			continue
		}
		h, _ := core.ParseHours(at(hours, i))
		entries = append(entries, core.OvertimeEntry{Date: date, Hours: h})
		days = append(days, core.DayRecord{
			Date:    date,
			Workday: core.ParseWorkday(at(flags, i)),
		})
	}
	return entries, days, nil
}

func (s *Service) publish(ctx context.Context, date time.Time, op string) {
	if s.events == nil {
		return
	}
	key := date.Format(core.DateLayout)
	if err := s.events.PublishDayChanged(ctx, key, op); err != nil {
		// The write already succeeded; a lost event only delays the
		// mirror, so log and move on.
		slog.ErrorContext(ctx, "Failed to publish day changed event",
			"date", key, "op", op, "error", err)
	}
}

func at(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}
