package cli

import (
	"testing"
	"time"

	"github.com/pfrederiksen/gigradar/internal/event"
)

func TestSortEvents(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 20, 0, 0, 0, event.Bucharest) }
	base := []event.Event{
		{Title: "Hamlet", Venue: "TNB", Date: day(20)},
		{Title: "antigona", Venue: "Bulandra", Date: day(15)},
		{Title: "Undated", Venue: "Arcub"},
		{Title: "Cure", Venue: "bulandra", Date: day(10)},
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortNone, []string{"Hamlet", "antigona", "Undated", "Cure"}},
		{SortByDate, []string{"Cure", "antigona", "Hamlet", "Undated"}},
		{SortByTitle, []string{"antigona", "Cure", "Hamlet", "Undated"}},
		{SortByVenue, []string{"Undated", "Cure", "antigona", "Hamlet"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			events := append([]event.Event(nil), base...)
			sortEvents(events, tt.order)
			for i, want := range tt.want {
				if events[i].Title != want {
					t.Errorf("position %d = %s, want %s", i, events[i].Title, want)
				}
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	for _, s := range []string{"", "date", "VENUE", " title "} {
		if _, err := ParseSortOrder(s); err != nil {
			t.Errorf("ParseSortOrder(%q) error = %v", s, err)
		}
	}
	if _, err := ParseSortOrder("price"); err == nil {
		t.Error("expected error for unknown sort order")
	}
}
