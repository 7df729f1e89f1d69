// Package artist filters events down to those featuring a followed artist.
//
// Names on both sides are normalized before comparison, lineups such as
// "A, B & C" are split into individual candidates, and a candidate matches a
// followed name when it is identical after normalization or close enough by
// fuzzy ratio.
package artist

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/fuzzy"
)

// DefaultThreshold is the fuzzy ratio a candidate must exceed to match.
// Deployments wanting a looser floor (e.g. 80) set artist.match_threshold.
const DefaultThreshold = 85.0

// DefaultSuffixes are promotional annotations stripped from artist names
var DefaultSuffixes = []string{
	"(album launch)",
	"(album release)",
	"(release party)",
	"(live)",
	"(dj set)",
	"(tour)",
	"(acoustic)",
	"(unplugged)",
	"(concert aniversar)",
	"(lansare album)",
}

var (
	countryCode = regexp.MustCompile(`\s*[\[(][A-Za-z]{2,3}[\])]`)
	separators  = regexp.MustCompile(`\s*(?:,|&|\sx\s|\sw/\s)\s*`)
)

// Matcher retains events whose artist appears in a followed list
type Matcher struct {
	threshold float64
	suffixes  []string
}

// NewMatcher creates a matcher. A threshold <= 0 selects DefaultThreshold and
// a nil suffix list selects DefaultSuffixes.
func NewMatcher(threshold float64, suffixes []string) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if suffixes == nil {
		suffixes = DefaultSuffixes
	}
	lowered := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			lowered = append(lowered, s)
		}
	}
	return &Matcher{threshold: threshold, suffixes: lowered}
}

// Threshold returns the fuzzy ratio floor in use
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Normalize lowercases a name, collapses whitespace and strips country codes
// and promotional suffixes
func (m *Matcher) Normalize(name string) string {
	s := strings.ToLower(name)
	s = countryCode.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	for stripped := true; stripped; {
		stripped = false
		for _, suffix := range m.suffixes {
			if strings.HasSuffix(s, suffix) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
				stripped = true
			}
		}
	}
	return s
}

// Candidates returns the normalized names an artist field can match on: the
// whole string followed by each lineup member
func (m *Matcher) Candidates(artist string) []string {
	full := m.Normalize(artist)
	if full == "" {
		return nil
	}

	out := []string{full}
	seen := map[string]bool{full: true}
	for _, part := range separators.Split(strings.ToLower(artist), -1) {
		name := m.Normalize(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Match returns the events featuring any followed artist, in input order.
// Events without an artist are never retained.
func (m *Matcher) Match(events []event.Event, followed []string) []event.Event {
	out := make([]event.Event, 0)

	names := make(map[string]bool, len(followed))
	normalized := make([]string, 0, len(followed))
	for _, f := range followed {
		n := m.Normalize(f)
		if n == "" || names[n] {
			continue
		}
		names[n] = true
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return out
	}

	for _, evt := range events {
		if !evt.HasArtist() {
			continue
		}
		if m.matches(evt.Artist, names, normalized) {
			out = append(out, evt)
		}
	}
	return out
}

func (m *Matcher) matches(artist string, names map[string]bool, followed []string) bool {
	for _, c := range m.Candidates(artist) {
		if names[c] {
			return true
		}
		for _, f := range followed {
			if fuzzy.Ratio(c, f) > m.threshold {
				return true
			}
		}
	}
	return false
}
