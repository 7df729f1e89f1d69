package dedup

import (
	"strings"

	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/fuzzy"
	"github.com/pfrederiksen/gigradar/internal/venue"
)

// Thresholds are the fuzzy-match floors on the 0-100 similarity scale.
// A pair is a duplicate only when the ratio is strictly greater.
type Thresholds struct {
	Artist float64
	Venue  float64
}

// DefaultThresholds match the values the listing pipeline was tuned with
var DefaultThresholds = Thresholds{Artist: 85, Venue: 80}

// Stage1 removes exact and near-duplicate listings on the same calendar day
type Stage1 struct {
	venues     *venue.Normalizer
	thresholds Thresholds
}

// NewStage1 creates the exact/fuzzy stage. A nil normalizer only sanitizes venues.
func NewStage1(venues *venue.Normalizer, thresholds Thresholds) *Stage1 {
	return &Stage1{venues: venues, thresholds: thresholds}
}

// accepted caches the comparison fields of a record already in the output
type accepted struct {
	evt    event.Event
	artist string
	venue  string
}

// Dedup returns events with duplicates removed. The first record of each
// duplicate set wins and survivors keep their input order.
func (s *Stage1) Dedup(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	if len(events) == 0 {
		return out
	}

	seen := make(map[string]bool, len(events))
	kept := make([]accepted, 0, len(events))

	for _, evt := range events {
		normVenue := s.venues.Normalize(evt.Venue)
		key := exactKey(evt, normVenue)
		if seen[key] {
			continue
		}

		candidate := accepted{
			evt:    evt,
			artist: strings.ToLower(evt.Artist),
			venue:  normVenue,
		}
		if s.matchesAny(candidate, kept) {
			continue
		}

		seen[key] = true
		kept = append(kept, candidate)
		out = append(out, evt)
	}

	return out
}

// Key returns the exact dedup key for an event: lower(trim(artist))|day|canonical venue
func (s *Stage1) Key(evt event.Event) string {
	return exactKey(evt, s.venues.Normalize(evt.Venue))
}

func exactKey(evt event.Event, normVenue string) string {
	return strings.ToLower(strings.TrimSpace(evt.Artist)) + "|" + evt.Day() + "|" + normVenue
}

// matchesAny reports whether candidate is a fuzzy duplicate of an accepted record
func (s *Stage1) matchesAny(candidate accepted, kept []accepted) bool {
	for _, existing := range kept {
		if !event.SameDay(candidate.evt, existing.evt) {
			continue
		}
		if s.isDuplicate(candidate, existing) {
			return true
		}
	}
	return false
}

func (s *Stage1) isDuplicate(a, b accepted) bool {
	artistRatio := fuzzy.Ratio(a.artist, b.artist)
	if artistRatio <= s.thresholds.Artist {
		return false
	}
	if a.venue == b.venue {
		return true
	}
	return fuzzy.Ratio(a.venue, b.venue) > s.thresholds.Venue
}
