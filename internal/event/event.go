package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Category groups events into the digest sections
type Category string

const (
	CategoryMusic   Category = "music"
	CategoryTheatre Category = "theatre"
	CategoryCulture Category = "culture"
)

// Categories lists every category in digest order
var Categories = []Category{CategoryMusic, CategoryTheatre, CategoryCulture}

// DescriptionSource records where an enriched description came from
type DescriptionSource string

const (
	DescriptionScraped DescriptionSource = "scraped"
	DescriptionAI      DescriptionSource = "ai"
)

// DayLayout is the layout used for the date component of dedup keys
const DayLayout = "2006-01-02"

// Event is a single listing for one showing of a concert, play or exhibition.
// Events are values: enrichment produces a modified copy, never mutates in place.
type Event struct {
	Title    string    `json:"title" validate:"required"`
	Artist   string    `json:"artist,omitempty"`
	Venue    string    `json:"venue" validate:"required"`
	Date     time.Time `json:"date" validate:"required"`
	URL      string    `json:"url" validate:"required"`
	Source   string    `json:"source" validate:"required"`
	Category Category  `json:"category" validate:"oneof=music theatre culture"`
	Price    string    `json:"price,omitempty"`

	SpotifyURL        string            `json:"spotify_url,omitempty"`
	Description       string            `json:"description,omitempty"`
	DescriptionSource DescriptionSource `json:"description_source,omitempty" validate:"omitempty,oneof=scraped ai"`
	ImageURL          string            `json:"image_url,omitempty"`
	VideoURL          string            `json:"video_url,omitempty"`
}

// Day returns the Bucharest calendar date of the event as YYYY-MM-DD
func (e Event) Day() string {
	return e.Date.In(Bucharest).Format(DayLayout)
}

// HasArtist reports whether the artist field carries anything besides whitespace
func (e Event) HasArtist() bool {
	return strings.TrimSpace(e.Artist) != ""
}

// IsEnriched reports whether any detail-page enrichment field is set
func (e Event) IsEnriched() bool {
	return e.Description != "" || e.ImageURL != "" || e.VideoURL != ""
}

// WithSpotifyURL returns a copy of the event carrying the given Spotify link
func (e Event) WithSpotifyURL(url string) Event {
	e.SpotifyURL = url
	return e
}

// WithDetails returns a copy of the event carrying detail-page enrichment
func (e Event) WithDetails(description string, source DescriptionSource, imageURL, videoURL string) Event {
	e.Description = description
	e.DescriptionSource = source
	if description == "" {
		e.DescriptionSource = ""
	}
	e.ImageURL = imageURL
	e.VideoURL = videoURL
	return e
}

// SameDay reports whether two events fall on the same Bucharest calendar date.
// Time of day and the zone the dates were recorded in are ignored.
func SameDay(a, b Event) bool {
	ay, am, ad := a.Date.In(Bucharest).Date()
	by, bm, bd := b.Date.In(Bucharest).Date()
	return ay == by && am == bm && ad == bd
}

// Key is the identity used to recognise an event across runs (artist|date|venue).
// It is deliberately raw: cross-source matching belongs to the dedup stages.
func Key(e Event) string {
	return e.Artist + "|" + e.Day() + "|" + e.Venue
}

// GenerateID creates a deterministic short ID from the event key
func GenerateID(e Event) string {
	h := sha1.New()
	h.Write([]byte(Key(e)))
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// ByCategory splits events into per-category slices, keeping input order
func ByCategory(events []Event) map[Category][]Event {
	out := make(map[Category][]Event, len(Categories))
	for _, e := range events {
		out[e.Category] = append(out[e.Category], e)
	}
	return out
}
