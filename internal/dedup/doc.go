// Package dedup collapses listings of the same real-world event reported by
// different sources.
//
// Two stages run in order. Stage1 is deterministic: an exact identity key
// (artist, calendar day, canonical venue) followed by fuzzy comparison of
// artist and venue text against every record already accepted for the same day.
// Semantic hands the survivors to an external Oracle that can recognise
// duplicates too far apart textually for a similarity threshold. Both stages
// are total: they never fail, only remove records, and keep survivors in
// input order.
package dedup
