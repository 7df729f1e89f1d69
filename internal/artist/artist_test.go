package artist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pfrederiksen/gigradar/internal/event"
)

func withArtist(artist string) event.Event {
	return event.Event{
		Title:    artist + " live",
		Artist:   artist,
		Venue:    "Control",
		Date:     time.Date(2026, 3, 15, 20, 0, 0, 0, event.Bucharest),
		URL:      "https://iabilet.ro/" + artist,
		Source:   "iabilet",
		Category: event.CategoryMusic,
	}
}

func artists(events []event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Artist
	}
	return out
}

func TestNormalize(t *testing.T) {
	m := NewMatcher(0, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"Depeche  Mode", "depeche mode"},
		{"  The Cure ", "the cure"},
		{"Idles [UK]", "idles"},
		{"Khruangbin (US)", "khruangbin"},
		{"Subcarpați (Album Launch)", "subcarpați"},
		{"Vița de Vie (live) (tour)", "vița de vie"},
		{"Mogwai [SCO] (DJ Set)", "mogwai"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Normalize(tt.in))
		})
	}
}

func TestCandidates(t *testing.T) {
	m := NewMatcher(0, nil)

	assert.Equal(t, []string{"a, b & c", "a", "b", "c"}, m.Candidates("A, B & C"))
	assert.Equal(t, []string{"dubioza kolektiv x subcarpati", "dubioza kolektiv", "subcarpati"},
		m.Candidates("Dubioza Kolektiv x Subcarpati"))
	assert.Equal(t, []string{"fink w/ guests", "fink", "guests"}, m.Candidates("Fink w/ Guests"))
	assert.Equal(t, []string{"the cure"}, m.Candidates("The Cure"))
	assert.Nil(t, m.Candidates("   "))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		events   []event.Event
		followed []string
		want     []string
	}{
		{
			name:     "double space normalizes to exact match",
			events:   []event.Event{withArtist("Depeche  Mode")},
			followed: []string{"Depeche Mode"},
			want:     []string{"Depeche  Mode"},
		},
		{
			name:     "lineup member matches",
			events:   []event.Event{withArtist("A, B & C")},
			followed: []string{"B"},
			want:     []string{"A, B & C"},
		},
		{
			name:     "fuzzy spelling variant",
			events:   []event.Event{withArtist("Radiohaed")},
			followed: []string{"Radiohead"},
			want:     []string{"Radiohaed"},
		},
		{
			name:     "country code and suffix ignored",
			events:   []event.Event{withArtist("Idles [UK] (Album Launch)")},
			followed: []string{"IDLES"},
			want:     []string{"Idles [UK] (Album Launch)"},
		},
		{
			name:     "unrelated artist dropped",
			events:   []event.Event{withArtist("Metallica"), withArtist("The Cure")},
			followed: []string{"The Cure"},
			want:     []string{"The Cure"},
		},
		{
			name:     "blank artist never retained",
			events:   []event.Event{withArtist(""), withArtist("   ")},
			followed: []string{"The Cure", ""},
			want:     []string{},
		},
		{
			name:     "empty followed list retains nothing",
			events:   []event.Event{withArtist("The Cure")},
			followed: nil,
			want:     []string{},
		},
		{
			name:     "order preserved",
			events:   []event.Event{withArtist("Moby"), withArtist("Björk"), withArtist("Air")},
			followed: []string{"Air", "Moby"},
			want:     []string{"Moby", "Air"},
		},
	}

	m := NewMatcher(DefaultThreshold, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, artists(m.Match(tt.events, tt.followed)))
		})
	}
}

func TestMatch_Threshold(t *testing.T) {
	events := []event.Event{withArtist("Radiohaed")}

	strict := NewMatcher(99, nil)
	assert.Empty(t, strict.Match(events, []string{"Radiohead"}))

	assert.Equal(t, DefaultThreshold, NewMatcher(-1, nil).Threshold())

	// ratio("vita de vie live", "vita de vie") is about 81.5
	loose := []event.Event{withArtist("Vita de Vie Live")}
	assert.Empty(t, NewMatcher(0, nil).Match(loose, []string{"Vita de Vie"}))
	assert.Len(t, NewMatcher(80, nil).Match(loose, []string{"Vita de Vie"}), 1)
}

func TestMatch_CustomSuffixes(t *testing.T) {
	m := NewMatcher(0, []string{"(Sold Out)"})
	assert.Equal(t, "the cure", m.Normalize("The Cure (sold out)"))
	assert.Equal(t, "the cure (album launch)", m.Normalize("The Cure (album launch)"))
}

func TestMatch_DoesNotMutateInput(t *testing.T) {
	events := []event.Event{withArtist("The Cure"), withArtist("Moby")}
	before := append([]event.Event(nil), events...)

	NewMatcher(0, nil).Match(events, []string{"moby"})
	assert.Equal(t, before, events)
}
