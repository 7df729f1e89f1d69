package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pfrederiksen/gigradar/internal/event"
)

func ev(title string, c event.Category, day int) event.Event {
	return event.Event{
		Title:    title,
		Artist:   title,
		Venue:    "Control",
		Date:     time.Date(2026, 3, day, 20, 0, 0, 0, event.Bucharest),
		URL:      "https://example.ro/" + strings.ReplaceAll(title, " ", "-"),
		Source:   "iabilet",
		Category: c,
	}
}

func sample() Digest {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return New("", []event.Event{
		ev("The Cure", event.CategoryMusic, 15),
		ev("Hamlet", event.CategoryTheatre, 16),
		ev("Depeche Mode", event.CategoryMusic, 20),
		ev("Brancusi", event.CategoryCulture, 21),
	}, now)
}

func TestNew(t *testing.T) {
	d := sample()

	assert.Equal(t, DefaultTitle, d.Title)
	assert.Equal(t, 4, d.Total())
	assert.Len(t, d.Music, 2)
	assert.Equal(t, "The Cure", d.Music[0].Title)
	assert.Equal(t, "Depeche Mode", d.Music[1].Title)

	var titles []string
	for _, e := range d.All() {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"The Cure", "Depeche Mode", "Hamlet", "Brancusi"}, titles)
}

func TestSubject(t *testing.T) {
	d := sample()
	assert.Equal(t, "GigRadar Weekly - 2 concerts, 1 theatre, 1 culture", d.Subject())

	empty := New("Test Digest", nil, time.Now())
	assert.Equal(t, "Test Digest - 0 concerts, 0 theatre, 0 culture", empty.Subject())
	assert.True(t, empty.Empty())
}

func TestFormat(t *testing.T) {
	d := sample()
	d.Music[0] = d.Music[0].WithSpotifyURL("https://open.spotify.com/artist/cure")
	d.Theatre[0].Price = "80 RON"

	out := Format(d)

	for _, want := range []string{
		"## 🎵 Music Events\n",
		"### The Cure @ Control",
		"📅 Sun, Mar 15",
		"🎧 https://open.spotify.com/artist/cure",
		"🔗 https://example.ro/The-Cure",
		"## 🎭 Theatre",
		"📅 Mon, Mar 16 · 💰 80 RON",
		"## 🎨 Culture",
	} {
		assert.Contains(t, out, want)
	}

	assert.Equal(t, 2, strings.Count(out, "\n---\n"))
	assert.Less(t, strings.Index(out, "Music"), strings.Index(out, "Theatre"))
	assert.Less(t, strings.Index(out, "Theatre"), strings.Index(out, "Culture"))
	assert.NotContains(t, out, "failed")
}

func TestFormat_Personalized(t *testing.T) {
	d := sample()
	d.Personalized = true
	assert.Contains(t, Format(d), "(matching your Spotify)")
}

func TestFormat_SkipsEmptySections(t *testing.T) {
	d := New("", []event.Event{ev("Hamlet", event.CategoryTheatre, 16)}, time.Now())
	out := Format(d)

	assert.NotContains(t, out, "Music")
	assert.NotContains(t, out, "---")
	assert.True(t, strings.HasPrefix(out, "## 🎭 Theatre"))
}

func TestFormat_Errors(t *testing.T) {
	d := New("", nil, time.Now())
	d.Errors = []ScrapeError{{Source: "iabilet", Message: "status 503"}}

	assert.False(t, d.Empty())
	out := Format(d)
	assert.Contains(t, out, "No new events this week.")
	assert.Contains(t, out, "1 source failed:")
	assert.Contains(t, out, "- iabilet: status 503")

	d.Errors = append(d.Errors, ScrapeError{Source: "control", Message: "timeout"})
	assert.Contains(t, Format(d), "2 sources failed:")
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "TBA", FormatDate(time.Time{}))
	late := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "Sun, Mar 15", FormatDate(late))
}
