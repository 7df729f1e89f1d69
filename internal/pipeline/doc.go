// Package pipeline runs one aggregation pass end to end.
//
// A run scrapes every enabled source in parallel, validates the raw records,
// deduplicates each category (plus a semantic pass for music), optionally
// narrows music to followed artists, enriches the events not seen before,
// merges them into the stored snapshot and delivers a digest of what is new.
// Collaborator failures degrade the run instead of aborting it: a broken
// source is reported in the digest, a missing Gemini key skips the semantic
// pass, and enrichment errors leave events as scraped.
package pipeline
