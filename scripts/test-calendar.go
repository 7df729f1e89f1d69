package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/gigradar/internal/calendar"
	"github.com/pfrederiksen/gigradar/internal/event"
)

func main() {
	now := time.Now()
	tomorrow := event.StartOfDay(now).AddDate(0, 0, 1)

	// One timed concert and one all-day exhibition
	events := []event.Event{
		{
			Title:    "Subcarpați",
			Artist:   "Subcarpați",
			Venue:    "Arenele Romane",
			Date:     tomorrow.Add(20 * time.Hour),
			URL:      "https://www.iabilet.ro/bilete-subcarpati/",
			Source:   "iabilet",
			Category: event.CategoryMusic,
			Price:    "120 lei",
		},
		{
			Title:    "Brâncuși, sursele românești și universale",
			Venue:    "MNAC",
			Date:     tomorrow,
			URL:      "https://www.mnac.ro/",
			Source:   "mnac",
			Category: event.CategoryCulture,
		},
	}

	icsContent := calendar.GenerateICS(events, "GigRadar Test", now)

	// Write to file (owner read/write only)
	filename := "test-gigradar.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
