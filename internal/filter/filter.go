// Package filter narrows a list of events by date range, venue, keyword and
// weekday. The run command uses it to trim the digest and the printed result.
//
// Example usage:
//
//	f := filter.New()
//	f.WeekendsOnly = true
//	f.Venues = []string{"control"}
//	kept := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/venue"
)

// Filter represents event filtering criteria
type Filter struct {
	// Date range filtering, both ends inclusive
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Venue filtering on sanitized names (substring match, accents ignored)
	Venues []string `json:"venues,omitempty"`

	// Keywords match title or artist (case-insensitive substring)
	Keywords []string `json:"keywords,omitempty"`

	// Weekend-only filtering (Saturday/Sunday in Bucharest)
	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// New creates an empty filter that matches every event
func New() *Filter {
	return &Filter{
		Venues:   []string{},
		Keywords: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Venues) == 0 &&
		len(f.Keywords) == 0 &&
		!f.WeekendsOnly)
}

// Matches checks if an event passes all active criteria.
// Undated events only fail the date range and weekend checks when those are set.
func (f *Filter) Matches(evt event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	dated := !evt.Date.IsZero()
	when := evt.Date.In(event.Bucharest)

	if f.DateFrom != nil && (!dated || when.Before(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && (!dated || when.After(*f.DateTo)) {
		return false
	}

	if f.WeekendsOnly {
		if !dated {
			return false
		}
		if wd := when.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return false
		}
	}

	if len(f.Venues) > 0 {
		normalized := venue.Sanitize(evt.Venue)
		if !containsAny(normalized, f.Venues, venue.Sanitize) {
			return false
		}
	}

	if len(f.Keywords) > 0 {
		text := strings.ToLower(evt.Title + " " + evt.Artist)
		if !containsAny(text, f.Keywords, strings.ToLower) {
			return false
		}
	}

	return true
}

func containsAny(text string, needles []string, norm func(string) string) bool {
	for _, n := range needles {
		n = norm(n)
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// Apply returns only the matching events, keeping input order.
// An empty filter returns the input unchanged.
func (f *Filter) Apply(events []event.Event) []event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "From: Mar 1, 2026 | To: Mar 15, 2026 | Venues: control | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Venues) > 0 {
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(f.Venues, ", ")))
	}
	if len(f.Keywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(f.Keywords, ", ")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter
func (f *Filter) Clone() *Filter {
	if f == nil {
		return nil
	}
	clone := &Filter{WeekendsOnly: f.WeekendsOnly}
	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}
	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}
	clone.Venues = append([]string{}, f.Venues...)
	clone.Keywords = append([]string{}, f.Keywords...)
	return clone
}
