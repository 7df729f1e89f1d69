// Package storage persists the event snapshot between runs.
//
// The snapshot is a single events.json file in the data directory holding one
// list per category. It is what new-event detection compares against and what
// the retention policy prunes. The default location is ~/.gigradar/.
package storage
