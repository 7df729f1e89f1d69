package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/gigradar/internal/digest"
	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time              `json:"checked_at"`
	RunID      string                 `json:"run_id"`
	NewEvents  []event.Event          `json:"new_events"`
	EventCount int                    `json:"event_count"`
	Counts     map[event.Category]int `json:"counts"`
	Errors     []digest.ScrapeError   `json:"errors,omitempty"`
	Saved      bool                   `json:"saved"`
}

// NewOutputResult converts a pipeline result
func NewOutputResult(r *pipeline.Result) *OutputResult {
	counts := make(map[event.Category]int, len(event.Categories))
	for _, c := range event.Categories {
		counts[c] = len(r.Digest.Events(c))
	}
	events := r.New
	if events == nil {
		events = make([]event.Event, 0)
	}
	return &OutputResult{
		CheckedAt:  time.Now().UTC(),
		RunID:      r.RunID,
		NewEvents:  events,
		EventCount: len(events),
		Counts:     counts,
		Errors:     r.Errors,
		Saved:      r.Saved,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var categoryLabels = map[event.Category]string{
	event.CategoryMusic:   "Music",
	event.CategoryTheatre: "Theatre",
	event.CategoryCulture: "Culture",
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No new events found.")
	} else {
		byCategory := event.ByCategory(result.NewEvents)
		sections := 0
		for _, c := range event.Categories {
			events := byCategory[c]
			if len(events) == 0 {
				continue
			}
			sections++

			fmt.Fprintf(w, "\n%s (%d new):\n", categoryLabels[c], len(events))
			for _, evt := range events {
				fmt.Fprintf(w, "  NEW: %s\n", eventLine(evt))
				if verbose {
					writeEventFields(w, evt, "       ")
				}
			}
		}
		fmt.Fprintf(w, "\nTotal: %d new across %d categories\n", result.EventCount, sections)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\n%d source(s) failed:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Source, e.Message)
		}
	}
	if !result.Saved {
		fmt.Fprintln(w, "\n(dry run: snapshot not saved)")
	}
	return nil
}

// writeEvents prints a plain event list for the stage commands
func writeEvents(w io.Writer, events []event.Event, format OutputFormat) error {
	if events == nil {
		events = make([]event.Event, 0)
	}
	if format == FormatJSON {
		return writeJSON(w, events)
	}
	for _, evt := range events {
		fmt.Fprintln(w, eventLine(evt))
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
	return nil
}

func writeEventDetail(w io.Writer, evt event.Event) {
	fmt.Fprintln(w, evt.Title)
	writeEventFields(w, evt, "  ")
	if evt.Description != "" {
		fmt.Fprintf(w, "\n%s\n", evt.Description)
	}
}

func writeEventFields(w io.Writer, evt event.Event, indent string) {
	fmt.Fprintf(w, "%sID: %s\n", indent, event.GenerateID(evt))
	if evt.HasArtist() {
		fmt.Fprintf(w, "%sArtist: %s\n", indent, evt.Artist)
	}
	fmt.Fprintf(w, "%sVenue: %s\n", indent, evt.Venue)
	fmt.Fprintf(w, "%sDate: %s\n", indent, digest.FormatDate(evt.Date))
	if evt.Price != "" {
		fmt.Fprintf(w, "%sPrice: %s\n", indent, evt.Price)
	}
	fmt.Fprintf(w, "%sSource: %s\n", indent, evt.Source)
	fmt.Fprintf(w, "%sURL: %s\n", indent, evt.URL)
	if evt.SpotifyURL != "" {
		fmt.Fprintf(w, "%sSpotify: %s\n", indent, evt.SpotifyURL)
	}
}

func eventLine(evt event.Event) string {
	return fmt.Sprintf("%s @ %s (%s)", evt.Title, evt.Venue, evt.Day())
}
