package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone    SortOrder = ""
	SortByDate  SortOrder = "date"
	SortByVenue SortOrder = "venue"
	SortByTitle SortOrder = "title"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNone, SortByDate, SortByVenue, SortByTitle:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'venue' or 'title')", s)
	}
}

// sortEvents sorts events in place; SortNone keeps digest order
func sortEvents(events []event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByVenue:
		sort.SliceStable(events, func(i, j int) bool {
			vi, vj := strings.ToLower(events[i].Venue), strings.ToLower(events[j].Venue)
			if vi != vj {
				return vi < vj
			}
			// If venues are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate returns true if event i should come before event j.
// Undated events go last, ordered by title.
func compareByDate(i, j event.Event) bool {
	if !i.Date.IsZero() && !j.Date.IsZero() {
		if !i.Date.Equal(j.Date) {
			return i.Date.Before(j.Date)
		}
		return strings.ToLower(i.Title) < strings.ToLower(j.Title)
	}

	// If only one date is valid, put the valid one first
	if !i.Date.IsZero() {
		return true
	}
	if !j.Date.IsZero() {
		return false
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
