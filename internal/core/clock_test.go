package core

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want Clock
		ok   bool
	}{
		{"18:00:00", Clock{18, 0, 0}, true},
		{"19:30:00", Clock{19, 30, 0}, true},
		{"09:05", Clock{9, 5, 0}, true},
		{"", Clock{}, false},
		{"25:00:00", Clock{}, false},
		{"notatime", Clock{}, false},
	}
	for i, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got %v err %v", i, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error for %q", i, tc.in)
		}
	}
}

func TestClockHoursAfter(t *testing.T) {
	if h := (Clock{19, 30, 0}).HoursAfter(Clock{18, 0, 0}); h != 1.5 {
		t.Fatalf("got %v want 1.5", h)
	}
	if h := (Clock{17, 0, 0}).HoursAfter(Clock{18, 0, 0}); h != -1.0 {
		t.Fatalf("got %v want -1", h)
	}
}

func TestClockAddHoursTruncatesMinutes(t *testing.T) {
	cases := []struct {
		h    float64
		want string
	}{
		{1.0, "19:00"},
		{0.5, "18:30"},
		{1.99, "19:59"}, // 1.99h = 1h59m24s, truncated not rounded
		{0.0333, "18:01"},
	}
	for i, tc := range cases {
		if got := StandardOff.AddHours(tc.h).HHMM(); got != tc.want {
			t.Fatalf("case %d: got %s want %s", i, got, tc.want)
		}
	}
}

func TestClockString(t *testing.T) {
	if s := (Clock{9, 5, 7}).String(); s != "09:05:07" {
		t.Fatalf("got %s", s)
	}
	if s := (Clock{19, 0, 0}).HHMM(); s != "19:00" {
		t.Fatalf("got %s", s)
	}
}
