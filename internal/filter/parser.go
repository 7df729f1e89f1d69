package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/gigradar/internal/event"
)

const monthNames = `jan|january|ian|ianuarie|feb|february|februarie|mar|march|martie|apr|april|aprilie|may|mai|jun|june|iun|iunie|jul|july|iul|iulie|aug|august|sep|sept|september|septembrie|oct|october|octombrie|nov|november|noi|noiembrie|dec|december|decembrie`

var (
	sameMonthRange  = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})\s*-\s*(` + monthNames + `)\s+(\d{1,2})$`)
	wholeMonth      = regexp.MustCompile(`(?i)^(` + monthNames + `)$`)
	isoRange        = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*(?:\.\.|to)\s*(\d{4}-\d{2}-\d{2})$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats (English or Romanian month names):
//   - "Mar 1-15" or "martie 1-15" - same month, different days
//   - "March 1 - April 15" - different months
//   - "March" - entire month
//   - "2026-03-01..2026-03-15" or "2026-03-01 to 2026-03-15"
//
// Months already past relative to now resolve to next year. Times are in the
// Bucharest zone; start is 00:00:00 and end is 23:59:59.
func ParseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[3])
		if err != nil {
			return nil, nil, err
		}

		year := yearForMonth(month, now)
		return ordered(startOf(year, month, day1), endOf(year, month, day2))
	}

	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1 := parseMonth(m[1])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		month2 := parseMonth(m[3])
		day2, err := parseDay(m[4])
		if err != nil {
			return nil, nil, err
		}

		year1 := yearForMonth(month1, now)
		year2 := year1
		if month2 < month1 {
			year2++
		}
		return ordered(startOf(year1, month1, day1), endOf(year2, month2, day2))
	}

	if m := wholeMonth.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		year := yearForMonth(month, now)
		from := startOf(year, month, 1)
		// day 0 of the next month is the last day of this one
		to := endOf(year, month+1, 0)
		return &from, &to, nil
	}

	if m := isoRange.FindStringSubmatch(input); m != nil {
		from, err := time.ParseInLocation(event.DayLayout, m[1], event.Bucharest)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", m[1])
		}
		to, err := time.ParseInLocation(event.DayLayout, m[2], event.Bucharest)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", m[2])
		}
		return ordered(from, endOf(to.Year(), to.Month(), to.Day()))
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'Mar 1-15', 'March 1 - April 15', 'March' or '2026-03-01..2026-03-15'")
}

func ordered(from, to time.Time) (*time.Time, *time.Time, error) {
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

func startOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, event.Bucharest)
}

func endOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 23, 59, 59, 0, event.Bucharest)
}

// parseMonth converts an English or Romanian month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	months := map[string]time.Month{
		"jan": time.January, "ian": time.January,
		"feb": time.February,
		"mar": time.March,
		"apr": time.April,
		"may": time.May, "mai": time.May,
		"jun": time.June, "iun": time.June,
		"jul": time.July, "iul": time.July,
		"aug": time.August,
		"sep": time.September,
		"oct": time.October,
		"nov": time.November, "noi": time.November,
		"dec": time.December,
	}
	if len(name) < 3 {
		return 0
	}
	return months[name[:3]]
}

// yearForMonth returns the current year, or next year if the month has passed
func yearForMonth(month time.Month, now time.Time) int {
	now = now.In(event.Bucharest)
	year := now.Year()
	if month < now.Month() {
		year++
	}
	return year
}
