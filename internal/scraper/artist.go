package scraper

import "strings"

// titleSeparators split "Artist - Tour name" style titles, first match wins
var titleSeparators = []string{" - ", " – ", " | ", " @ ", ": ", " w/ "}

// ExtractArtist derives the artist from an event title. Titles without a
// separator are taken whole.
func ExtractArtist(title string) string {
	t := strings.TrimSpace(title)
	for _, prefix := range []string{"LIVE:", "Live:", "live:"} {
		t = strings.TrimSpace(strings.TrimPrefix(t, prefix))
	}

	for _, sep := range titleSeparators {
		if i := strings.Index(t, sep); i > 0 {
			return strings.TrimSpace(t[:i])
		}
	}
	return t
}
