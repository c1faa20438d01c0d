package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sheet layout: one header row, then one row per day, ascending by date.
// Columns are 1-based to match the remote table API.
const (
	ColDate = iota + 1
	ColWeekday
	ColWorkday
	ColStandardOff
	ColActualOff
	ColDailyOvertime
	ColMonthlyOvertime

	NumCols = ColMonthlyOvertime
)

// DateLayout is the row key format in column A.
const DateLayout = "2006-01-02"

// Workday flag tokens as persisted in the sheet. The sheet predates this
// program, so the tokens are kept for wire compatibility; everything past
// the model boundary works with bool.
const (
	workdayYes = "是"
	workdayNo  = "否"
)

var weekdayLabels = [7]string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("invalid month")
)

// DayRecord is one day's row, decoded.
type DayRecord struct {
	Date        time.Time
	Workday     bool
	StandardOff Clock

	// Set only once a clock-out has been recorded.
	ActualOff       *Clock
	DailyOvertime   float64
	MonthlyOvertime float64
}

// ParseDate parses a row key. Anything that is not a well-formed ISO date
// is a validation failure. Dates live in local time; the whole schedule
// runs on the local wall clock.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DateOf truncates t to its calendar date, keeping the location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekdayLabel returns the localized weekday name stored in column B.
func WeekdayLabel(t time.Time) string {
	return weekdayLabels[mondayIndex(t)]
}

// IsDefaultWorkday reports the default flag for a date: Monday through
// Friday are workdays unless overridden.
func IsDefaultWorkday(t time.Time) bool {
	return mondayIndex(t) < 5
}

// mondayIndex maps time.Weekday (Sunday=0) to Monday=0..Sunday=6.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NewDefaultRecord builds the lazily-created row for a date: derived
// weekday label, Mon-Fri workday default, 18:00:00 standard off time,
// overtime columns blank.
func NewDefaultRecord(date time.Time) DayRecord {
	return DayRecord{
		Date:        date,
		Workday:     IsDefaultWorkday(date),
		StandardOff: StandardOff,
	}
}

// Row encodes the record to sheet cell values. Overtime columns are
// emitted blank until a clock-out is recorded.
func (d DayRecord) Row() []string {
	row := make([]string, NumCols)
	row[ColDate-1] = d.Date.Format(DateLayout)
	row[ColWeekday-1] = WeekdayLabel(d.Date)
	row[ColWorkday-1] = WorkdayToken(d.Workday)
	row[ColStandardOff-1] = d.StandardOff.String()
	if d.ActualOff != nil {
		row[ColActualOff-1] = d.ActualOff.String()
		row[ColDailyOvertime-1] = FormatHours(d.DailyOvertime)
		row[ColMonthlyOvertime-1] = FormatHours(d.MonthlyOvertime)
	}
	return row
}

// WorkdayToken encodes the flag for the write boundary.
func WorkdayToken(workday bool) string {
	if workday {
		return workdayYes
	}
	return workdayNo
}

// ParseWorkday decodes the stored flag. Only the exact yes-token counts
// as a workday; blank or anything else reads as a rest day, matching how
// the sheet has always been interpreted.
func ParseWorkday(s string) bool {
	return strings.TrimSpace(s) == workdayYes
}

// ParseHours decodes an overtime cell. Blank or non-numeric cells are
// historical noise and contribute zero.
func ParseHours(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// FormatHours renders overtime hours the way the sheet stores them.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}
