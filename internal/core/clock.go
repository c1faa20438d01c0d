package core

import (
	"errors"
	"fmt"
	"time"
)

// Clock is a wall-clock time of day, independent of any date.
// It is the unit the schedule works in: standard off time, actual off
// time and suggested off time are all Clocks.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

var ErrInvalidClock = errors.New("invalid clock time")

// StandardOff is the baseline end-of-work time overtime is measured against.
var StandardOff = Clock{Hour: 18}

// ParseClock parses "HH:MM:SS" (the format stored in the sheet).
// "HH:MM" is accepted too, since spreadsheet formatting sometimes drops seconds.
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

// ClockOf extracts the time-of-day from t.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// String renders the stored "HH:MM:SS" form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// HHMM renders the short display form used in suggestions.
func (c Clock) HHMM() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// HoursAfter returns the signed difference c - other in fractional hours.
func (c Clock) HoursAfter(other Clock) float64 {
	return float64(c.seconds()-other.seconds()) / 3600.0
}

// AddHours returns the clock h fractional hours later, with minutes
// truncated (not rounded) and seconds dropped. 1.99h after 18:00 is 19:59.
func (c Clock) AddHours(h float64) Clock {
	total := c.seconds() + int(h*3600)
	total %= 24 * 3600
	if total < 0 {
		total += 24 * 3600
	}
	return Clock{Hour: total / 3600, Minute: (total % 3600) / 60}
}
