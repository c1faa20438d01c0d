package core

import "time"

// DailyOvertime computes one day's overtime in fractional hours.
// Leaving early never yields a negative number.
func DailyOvertime(actual, standard Clock) float64 {
	h := actual.HoursAfter(standard)
	if h < 0 {
		return 0
	}
	return h
}

// OvertimeEntry is the slice element the monthly aggregation works on:
// a dated overtime amount, however it was obtained.
type OvertimeEntry struct {
	Date  time.Time
	Hours float64
}

// MonthlyOvertime sums entries falling in the calendar month of ref.
// This is the single aggregation routine shared by clock-out and the
// daily suggestion; callers wanting to substitute a fresher value for a
// day patch the entry slice before summing.
func MonthlyOvertime(entries []OvertimeEntry, ref time.Time) float64 {
	var total float64
	for _, e := range entries {
		if SameMonth(e.Date, ref) {
			total += e.Hours
		}
	}
	return total
}

// FutureWorkdays counts same-month workdays strictly after ref.
func FutureWorkdays(days []DayRecord, ref time.Time) int {
	n := 0
	for _, d := range days {
		if d.Workday && SameMonth(d.Date, ref) && d.Date.After(ref) {
			n++
		}
	}
	return n
}
