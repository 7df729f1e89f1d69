package event

import (
	"testing"
	"time"
)

func TestParseDateAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, Bucharest)

	tests := []struct {
		name      string
		dateText  string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantHour  int
		wantZero  bool
	}{
		{
			name:      "ISO date",
			dateText:  "2026-03-15",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   15,
		},
		{
			name:      "ISO date time",
			dateText:  "2026-03-15T20:30:00",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   15,
			wantHour:  20,
		},
		{
			name:      "UTC instant after local midnight",
			dateText:  "2026-03-15T22:30:00Z",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   16,
			wantHour:  0,
		},
		{
			name:      "explicit Bucharest offset",
			dateText:  "2026-03-16T00:30:00+02:00",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   16,
			wantHour:  0,
		},
		{
			name:      "Romanian dotted date",
			dateText:  "15.03.2026",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   15,
		},
		{
			name:      "Romanian abbreviation with short year",
			dateText:  "17 ian '27",
			wantYear:  2027,
			wantMonth: time.January,
			wantDay:   17,
		},
		{
			name:      "Romanian full month with year",
			dateText:  "5 noiembrie 2026",
			wantYear:  2026,
			wantMonth: time.November,
			wantDay:   5,
		},
		{
			name:      "no year, still ahead this year",
			dateText:  "20 mar",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   20,
		},
		{
			name:      "no year, already past rolls to next year",
			dateText:  "10 feb",
			wantYear:  2027,
			wantMonth: time.February,
			wantDay:   10,
		},
		{
			name:      "English header with weekday",
			dateText:  "Thursday, January 15, 2026",
			wantYear:  2026,
			wantMonth: time.January,
			wantDay:   15,
		},
		{
			name:     "Empty string",
			dateText: "",
			wantZero: true,
		},
		{
			name:     "Invalid format",
			dateText: "Not a date",
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDateAt(tt.dateText, now)

			if tt.wantZero {
				if !got.IsZero() {
					t.Errorf("ParseDateAt(%q) = %v, want zero time", tt.dateText, got)
				}
				return
			}

			if got.Year() != tt.wantYear {
				t.Errorf("ParseDateAt(%q).Year() = %d, want %d", tt.dateText, got.Year(), tt.wantYear)
			}
			if got.Month() != tt.wantMonth {
				t.Errorf("ParseDateAt(%q).Month() = %v, want %v", tt.dateText, got.Month(), tt.wantMonth)
			}
			if got.Day() != tt.wantDay {
				t.Errorf("ParseDateAt(%q).Day() = %d, want %d", tt.dateText, got.Day(), tt.wantDay)
			}
			if got.Hour() != tt.wantHour {
				t.Errorf("ParseDateAt(%q).Hour() = %d, want %d", tt.dateText, got.Hour(), tt.wantHour)
			}
		})
	}
}

func TestParseDateAt_NormalizesZone(t *testing.T) {
	utc := ParseDate("2026-03-15T22:30:00Z")
	local := ParseDate("2026-03-16T00:30:00+02:00")

	if !utc.Equal(local) {
		t.Fatalf("expected the same instant, got %v and %v", utc, local)
	}
	if utc.Location() != Bucharest {
		t.Errorf("Location() = %v, want %v", utc.Location(), Bucharest)
	}

	a := Event{Date: utc}
	b := Event{Date: local}
	if a.Day() != "2026-03-16" || b.Day() != "2026-03-16" {
		t.Errorf("Day() = %s and %s, want 2026-03-16", a.Day(), b.Day())
	}
	if !SameDay(a, b) {
		t.Error("SameDay() = false for the same instant in different zones")
	}
}

func TestEvent_DayUsesBucharest(t *testing.T) {
	// a date decoded from JSON keeps whatever zone it was written in
	evt := Event{Date: time.Date(2026, 3, 15, 22, 30, 0, 0, time.UTC)}
	if got := evt.Day(); got != "2026-03-16" {
		t.Errorf("Day() = %s, want 2026-03-16", got)
	}
}

func TestEvent_IsPast(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, Bucharest)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"yesterday", time.Date(2026, 3, 14, 20, 0, 0, 0, Bucharest), true},
		{"earlier today", time.Date(2026, 3, 15, 10, 0, 0, 0, Bucharest), false},
		{"tomorrow", time.Date(2026, 3, 16, 0, 0, 0, 0, Bucharest), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Event{Date: tt.date}).IsPast(now); got != tt.want {
				t.Errorf("IsPast() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvent_IsWithinDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, Bucharest)

	tests := []struct {
		name string
		date time.Time
		days int
		want bool
	}{
		{"tomorrow within 7", now.AddDate(0, 0, 1), 7, true},
		{"exactly 7 days", time.Date(2026, 3, 22, 21, 0, 0, 0, Bucharest), 7, true},
		{"8 days out", time.Date(2026, 3, 23, 0, 0, 0, 0, Bucharest), 7, false},
		{"past", now.AddDate(0, 0, -1), 7, false},
		{"feature disabled", now.AddDate(0, 0, 90), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Event{Date: tt.date}).IsWithinDays(tt.days, now); got != tt.want {
				t.Errorf("IsWithinDays(%d) = %v, want %v", tt.days, got, tt.want)
			}
		})
	}
}
