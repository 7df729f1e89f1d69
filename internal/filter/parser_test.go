package filter

import (
	"testing"
	"time"

	"github.com/pfrederiksen/gigradar/internal/event"
)

func TestParseDateRange(t *testing.T) {
	now := time.Date(2026, time.February, 10, 12, 0, 0, 0, event.Bucharest)

	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantFrom string
		wantTo   string
	}{
		{name: "same month", input: "Mar 1-15", wantFrom: "2026-03-01", wantTo: "2026-03-15"},
		{name: "full month name", input: "March 1-15", wantFrom: "2026-03-01", wantTo: "2026-03-15"},
		{name: "romanian month", input: "martie 1-15", wantFrom: "2026-03-01", wantTo: "2026-03-15"},
		{name: "cross month", input: "March 20 - April 5", wantFrom: "2026-03-20", wantTo: "2026-04-05"},
		{name: "cross year", input: "Dec 20 - Jan 5", wantFrom: "2026-12-20", wantTo: "2027-01-05"},
		{name: "past month rolls over", input: "Jan 1-10", wantFrom: "2027-01-01", wantTo: "2027-01-10"},
		{name: "whole month", input: "februarie", wantFrom: "2026-02-01", wantTo: "2026-02-28"},
		{name: "iso range", input: "2026-03-01..2026-03-15", wantFrom: "2026-03-01", wantTo: "2026-03-15"},
		{name: "iso range with to", input: "2026-03-01 to 2026-03-15", wantFrom: "2026-03-01", wantTo: "2026-03-15"},
		{name: "empty", input: "", wantErr: true},
		{name: "reversed days", input: "Mar 15-1", wantErr: true},
		{name: "invalid day", input: "Mar 1-45", wantErr: true},
		{name: "reversed iso", input: "2026-03-15..2026-03-01", wantErr: true},
		{name: "garbage", input: "next week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ParseDateRange(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDateRange(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateRange(%q) error = %v", tt.input, err)
			}
			if got := from.Format(event.DayLayout); got != tt.wantFrom {
				t.Errorf("from = %s, want %s", got, tt.wantFrom)
			}
			if got := to.Format(event.DayLayout); got != tt.wantTo {
				t.Errorf("to = %s, want %s", got, tt.wantTo)
			}
			if from.Hour() != 0 || to.Hour() != 23 || to.Minute() != 59 {
				t.Errorf("range bounds = %v..%v, want start and end of day", from, to)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	tests := map[string]time.Month{
		"jan":        time.January,
		"Ianuarie":   time.January,
		"mai":        time.May,
		"sept":       time.September,
		"noiembrie":  time.November,
		"DECEMBER":   time.December,
		"xx":         0,
		"notamonth":  0,
	}
	for in, want := range tests {
		if got := parseMonth(in); got != want {
			t.Errorf("parseMonth(%q) = %v, want %v", in, got, want)
		}
	}
}
