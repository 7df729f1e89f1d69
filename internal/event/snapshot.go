package event

import (
	"time"
)

// Snapshot is the persisted state of the previous run, one list per category
type Snapshot struct {
	ScrapedAt     string  `json:"scraped_at"` // RFC3339 timestamp
	MusicEvents   []Event `json:"music_events"`
	TheatreEvents []Event `json:"theatre_events"`
	CultureEvents []Event `json:"culture_events"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		MusicEvents:   make([]Event, 0),
		TheatreEvents: make([]Event, 0),
		CultureEvents: make([]Event, 0),
	}
}

// Events returns the stored events for a category
func (s *Snapshot) Events(c Category) []Event {
	switch c {
	case CategoryMusic:
		return s.MusicEvents
	case CategoryTheatre:
		return s.TheatreEvents
	case CategoryCulture:
		return s.CultureEvents
	}
	return nil
}

// SetEvents replaces the stored events for a category
func (s *Snapshot) SetEvents(c Category, events []Event) {
	switch c {
	case CategoryMusic:
		s.MusicEvents = events
	case CategoryTheatre:
		s.TheatreEvents = events
	case CategoryCulture:
		s.CultureEvents = events
	}
}

// All returns every stored event in category order
func (s *Snapshot) All() []Event {
	all := make([]Event, 0, len(s.MusicEvents)+len(s.TheatreEvents)+len(s.CultureEvents))
	for _, c := range Categories {
		all = append(all, s.Events(c)...)
	}
	return all
}

// Keys returns the identity keys of every stored event
func (s *Snapshot) Keys() map[string]bool {
	keys := make(map[string]bool)
	for _, e := range s.All() {
		keys[Key(e)] = true
	}
	return keys
}

// NewSince returns the events whose key is not in previousKeys, in input order
func NewSince(events []Event, previousKeys map[string]bool) []Event {
	fresh := make([]Event, 0)
	for _, e := range events {
		if !previousKeys[Key(e)] {
			fresh = append(fresh, e)
		}
	}
	return fresh
}

// Merge appends the events of current whose key is not already present in existing.
// Existing entries win, so enrichment stored by an earlier run is kept.
func Merge(existing, current []Event) []Event {
	seen := make(map[string]bool, len(existing))
	merged := make([]Event, 0, len(existing)+len(current))
	for _, e := range existing {
		seen[Key(e)] = true
		merged = append(merged, e)
	}
	for _, e := range current {
		k := Key(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, e)
	}
	return merged
}

// DropPast removes events dated before the day of now
func DropPast(events []Event, now time.Time) []Event {
	kept := make([]Event, 0, len(events))
	for _, e := range events {
		if !e.IsPast(now) {
			kept = append(kept, e)
		}
	}
	return kept
}
