package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Bucharest is the zone every scraped date is interpreted in
var Bucharest = loadBucharest()

func loadBucharest() *time.Location {
	loc, err := time.LoadLocation("Europe/Bucharest")
	if err != nil {
		return time.UTC
	}
	return loc
}

// romanianMonths maps Romanian (and English) month names and abbreviations
var romanianMonths = map[string]time.Month{
	"ian": time.January, "ianuarie": time.January, "jan": time.January, "january": time.January,
	"feb": time.February, "februarie": time.February, "february": time.February,
	"mar": time.March, "martie": time.March, "march": time.March,
	"apr": time.April, "aprilie": time.April, "april": time.April,
	"mai": time.May, "may": time.May,
	"iun": time.June, "iunie": time.June, "jun": time.June, "june": time.June,
	"iul": time.July, "iulie": time.July, "jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "septembrie": time.September, "september": time.September,
	"oct": time.October, "octombrie": time.October, "october": time.October,
	"noi": time.November, "nov": time.November, "noiembrie": time.November, "november": time.November,
	"dec": time.December, "decembrie": time.December, "december": time.December,
}

var (
	// "17 ian 2026", "17 ian '26", "17 ianuarie"
	dayMonthPattern = regexp.MustCompile(`(?i)^(\d{1,2})\s+([a-zăâîșşțţ]+)\.?(?:\s+'?(\d{2,4}))?`)
	// "January 15, 2026" after an optional weekday
	monthDayPattern = regexp.MustCompile(`(?i)^(?:[a-z]+,\s*)?([a-z]+)\s+(\d{1,2}),?\s+(\d{4})`)
)

// layouts are tried in order before the free-text month patterns
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DayLayout,
	"02.01.2006 15:04",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
}

// ParseDate parses event date text into a time in the Bucharest zone.
// Returns time.Time{} (zero value) if parsing fails.
// Dates without a year are assumed to be the next occurrence on or after today.
func ParseDate(dateText string) time.Time {
	return ParseDateAt(dateText, time.Now())
}

// ParseDateAt is ParseDate with an explicit reference time for year inference
func ParseDateAt(dateText string, now time.Time) time.Time {
	text := strings.TrimSpace(dateText)
	if text == "" {
		return time.Time{}
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, text, Bucharest); err == nil {
			// explicit offsets ("Z", "+02:00") are kept by ParseInLocation
			return t.In(Bucharest)
		}
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		month, ok := lookupMonth(m[1])
		if ok {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			return time.Date(year, month, day, 0, 0, 0, 0, Bucharest)
		}
	}

	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		month, ok := lookupMonth(m[2])
		if !ok {
			return time.Time{}
		}
		day, _ := strconv.Atoi(m[1])
		if m[3] != "" {
			year, _ := strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
			return time.Date(year, month, day, 0, 0, 0, 0, Bucharest)
		}
		return nextOccurrence(month, day, now)
	}

	return time.Time{}
}

// lookupMonth resolves a month name, tolerating diacritics and trailing dots
func lookupMonth(name string) (time.Month, bool) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if m, ok := romanianMonths[key]; ok {
		return m, true
	}
	if len(key) >= 3 {
		m, ok := romanianMonths[key[:3]]
		return m, ok
	}
	return 0, false
}

// nextOccurrence returns month/day in the current year, or next year if already past
func nextOccurrence(month time.Month, day int, now time.Time) time.Time {
	now = now.In(Bucharest)
	t := time.Date(now.Year(), month, day, 0, 0, 0, 0, Bucharest)
	if t.Before(StartOfDay(now)) {
		t = t.AddDate(1, 0, 0)
	}
	return t
}

// StartOfDay truncates t to midnight in the Bucharest zone
func StartOfDay(t time.Time) time.Time {
	t = t.In(Bucharest)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Bucharest)
}

// IsPast reports whether the event's date is before the day of now
func (e Event) IsPast(now time.Time) bool {
	return e.Date.Before(StartOfDay(now))
}

// IsWithinDays checks if an event falls within N days from now.
// Returns true if days <= 0 (feature disabled).
func (e Event) IsWithinDays(days int, now time.Time) bool {
	if days <= 0 {
		return true
	}
	start := StartOfDay(now)
	return !e.Date.Before(start) && e.Date.Before(start.AddDate(0, 0, days+1))
}
