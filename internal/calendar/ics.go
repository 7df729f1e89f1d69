// Package calendar exports events as iCalendar (.ics) data.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// DefaultDuration is used for events that carry a start time but no end
const DefaultDuration = 2 * time.Hour

const uidDomain = "gigradar"

// GenerateICS generates a calendar with one VEVENT per event.
// An empty event list yields an empty string.
func GenerateICS(events []event.Event, name string, now time.Time) string {
	if len(events) == 0 {
		return ""
	}

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//GigRadar//gigradar//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if name != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(name)))
		ics.WriteString("X-WR-TIMEZONE:Europe/Bucharest\r\n")
	}

	for _, evt := range events {
		writeEvent(&ics, evt, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, evt event.Event, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", event.GenerateID(evt), uidDomain))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	// Listings without a time of day become all-day entries
	local := evt.Date.In(event.Bucharest)
	if local.Equal(event.StartOfDay(local)) {
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", local.Format("20060102")))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", local.AddDate(0, 0, 1).Format("20060102")))
	} else {
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(evt.Date)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(evt.Date.Add(DefaultDuration))))
	}

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Title)))

	description := evt.Description
	if evt.Price != "" {
		description = strings.TrimSpace(fmt.Sprintf("%s\n\nPrice: %s", description, evt.Price))
	}
	description = strings.TrimSpace(fmt.Sprintf("%s\n\n%s", description, evt.URL))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(evt.Venue+", Bucharest")))
	ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.URL))
	ics.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", strings.ToUpper(string(evt.Category))))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 text escaping
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
