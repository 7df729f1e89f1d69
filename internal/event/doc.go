// Package event provides the event record shared by every scraper and pipeline stage.
//
// The event package handles event representation, calendar-day helpers, date parsing
// for the formats the venue sites publish (including Romanian month names), and the
// snapshot model used to detect which events are new since the previous run. Events
// are plain values; enrichment returns modified copies.
package event
