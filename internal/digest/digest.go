// Package digest assembles the weekly summary of new events and renders it as
// Markdown for the delivery channels.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// DefaultTitle heads the digest and prefixes the subject line
const DefaultTitle = "GigRadar Weekly"

// ScrapeError records a source that failed during the run
type ScrapeError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Digest is one run's worth of new events, grouped by category
type Digest struct {
	Title        string
	Personalized bool
	GeneratedAt  time.Time
	Music        []event.Event
	Theatre      []event.Event
	Culture      []event.Event
	Errors       []ScrapeError
}

// New groups events into a digest. Events keep their relative order.
func New(title string, events []event.Event, now time.Time) Digest {
	if title == "" {
		title = DefaultTitle
	}
	grouped := event.ByCategory(events)
	return Digest{
		Title:       title,
		GeneratedAt: now,
		Music:       grouped[event.CategoryMusic],
		Theatre:     grouped[event.CategoryTheatre],
		Culture:     grouped[event.CategoryCulture],
	}
}

// Events returns the events of one category
func (d Digest) Events(c event.Category) []event.Event {
	switch c {
	case event.CategoryMusic:
		return d.Music
	case event.CategoryTheatre:
		return d.Theatre
	case event.CategoryCulture:
		return d.Culture
	}
	return nil
}

// All returns every event in category order
func (d Digest) All() []event.Event {
	all := make([]event.Event, 0, d.Total())
	for _, c := range event.Categories {
		all = append(all, d.Events(c)...)
	}
	return all
}

// Total is the number of events across categories
func (d Digest) Total() int {
	return len(d.Music) + len(d.Theatre) + len(d.Culture)
}

// Empty reports whether there is nothing to send
func (d Digest) Empty() bool {
	return d.Total() == 0 && len(d.Errors) == 0
}

// Subject is the one-line summary used for email subjects and message headers
func (d Digest) Subject() string {
	return fmt.Sprintf("%s - %d concerts, %d theatre, %d culture",
		d.Title, len(d.Music), len(d.Theatre), len(d.Culture))
}

// Format renders the digest as Markdown
func Format(d Digest) string {
	var b strings.Builder

	sections := []struct {
		heading string
		events  []event.Event
	}{
		{musicHeading(d.Personalized), d.Music},
		{"## 🎭 Theatre", d.Theatre},
		{"## 🎨 Culture", d.Culture},
	}

	written := 0
	for _, s := range sections {
		if len(s.events) == 0 {
			continue
		}
		if written > 0 {
			b.WriteString("\n---\n\n")
		}
		b.WriteString(s.heading + "\n\n")
		for _, e := range s.events {
			b.WriteString(FormatEvent(e))
			b.WriteString("\n")
		}
		written++
	}

	if written == 0 {
		b.WriteString("No new events this week.\n")
	}

	if len(d.Errors) > 0 {
		b.WriteString("\n---\n\n")
		b.WriteString(fmt.Sprintf("⚠️ %d source%s failed:\n", len(d.Errors), pluralize(len(d.Errors))))
		for _, e := range d.Errors {
			b.WriteString(fmt.Sprintf("- %s: %s\n", e.Source, e.Message))
		}
	}

	return b.String()
}

// FormatEvent renders a single event block
func FormatEvent(e event.Event) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("### %s @ %s\n", e.Title, e.Venue))

	line := "📅 " + FormatDate(e.Date)
	if e.Price != "" {
		line += " · 💰 " + e.Price
	}
	b.WriteString(line + "\n")

	if e.SpotifyURL != "" {
		b.WriteString("🎧 " + e.SpotifyURL + "\n")
	}
	b.WriteString("🔗 " + e.URL + "\n")

	return b.String()
}

// FormatDate renders the event day the way the digest shows it
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "TBA"
	}
	return t.In(event.Bucharest).Format("Mon, Jan 02")
}

func musicHeading(personalized bool) string {
	if personalized {
		return "## 🎵 Music Events (matching your Spotify)"
	}
	return "## 🎵 Music Events"
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
