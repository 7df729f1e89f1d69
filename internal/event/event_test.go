package event

import (
	"testing"
	"time"
)

func TestSameDay(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "same instant",
			a:    time.Date(2026, 3, 15, 0, 0, 0, 0, Bucharest),
			b:    time.Date(2026, 3, 15, 0, 0, 0, 0, Bucharest),
			want: true,
		},
		{
			name: "different time of day",
			a:    time.Date(2026, 3, 15, 19, 0, 0, 0, Bucharest),
			b:    time.Date(2026, 3, 15, 22, 30, 0, 0, Bucharest),
			want: true,
		},
		{
			name: "next day",
			a:    time.Date(2026, 3, 15, 23, 59, 0, 0, Bucharest),
			b:    time.Date(2026, 3, 16, 0, 1, 0, 0, Bucharest),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SameDay(Event{Date: tt.a}, Event{Date: tt.b})
			if got != tt.want {
				t.Errorf("SameDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	e := Event{
		Artist: "The Cure",
		Venue:  "Control",
		Date:   time.Date(2026, 3, 15, 21, 0, 0, 0, Bucharest),
	}
	if got, want := Key(e), "The Cure|2026-03-15|Control"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}

	noArtist := Event{Venue: "TNB", Date: e.Date}
	if got, want := Key(noArtist), "|2026-03-15|TNB"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestGenerateID_Deterministic(t *testing.T) {
	e := Event{Artist: "Subcarpați", Venue: "Arenele Romane", Date: time.Date(2026, 6, 1, 0, 0, 0, 0, Bucharest)}
	if GenerateID(e) != GenerateID(e) {
		t.Error("GenerateID() is not deterministic")
	}
	other := e
	other.Venue = "Quantic"
	if GenerateID(e) == GenerateID(other) {
		t.Error("GenerateID() collides for different venues")
	}
}

func TestEvent_WithSpotifyURL_DoesNotMutate(t *testing.T) {
	original := Event{Title: "Show", Artist: "Band"}
	enriched := original.WithSpotifyURL("https://open.spotify.com/artist/1")

	if original.SpotifyURL != "" {
		t.Errorf("original mutated: SpotifyURL = %q", original.SpotifyURL)
	}
	if enriched.SpotifyURL != "https://open.spotify.com/artist/1" {
		t.Errorf("enriched.SpotifyURL = %q", enriched.SpotifyURL)
	}
}

func TestEvent_WithDetails(t *testing.T) {
	e := Event{Title: "Hamlet"}

	got := e.WithDetails("", DescriptionScraped, "https://img", "")
	if got.DescriptionSource != "" {
		t.Errorf("DescriptionSource = %q, want empty when there is no description", got.DescriptionSource)
	}
	if !got.IsEnriched() {
		t.Error("IsEnriched() = false with an image set")
	}
	if e.IsEnriched() {
		t.Error("original event was mutated")
	}
}

func TestEvent_HasArtist(t *testing.T) {
	tests := []struct {
		artist string
		want   bool
	}{
		{"", false},
		{"   ", false},
		{"Vama", true},
	}
	for _, tt := range tests {
		if got := (Event{Artist: tt.artist}).HasArtist(); got != tt.want {
			t.Errorf("HasArtist(%q) = %v, want %v", tt.artist, got, tt.want)
		}
	}
}

func TestByCategory(t *testing.T) {
	events := []Event{
		{Title: "a", Category: CategoryMusic},
		{Title: "b", Category: CategoryTheatre},
		{Title: "c", Category: CategoryMusic},
	}
	got := ByCategory(events)
	if len(got[CategoryMusic]) != 2 || got[CategoryMusic][0].Title != "a" || got[CategoryMusic][1].Title != "c" {
		t.Errorf("music = %+v", got[CategoryMusic])
	}
	if len(got[CategoryTheatre]) != 1 {
		t.Errorf("theatre = %+v", got[CategoryTheatre])
	}
	if len(got[CategoryCulture]) != 0 {
		t.Errorf("culture = %+v", got[CategoryCulture])
	}
}
