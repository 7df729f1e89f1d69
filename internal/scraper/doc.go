// Package scraper fetches Bucharest event listings and turns them into events.
//
// Each configured Source names a parsing strategy. Strategies live in a
// Registry keyed by name, so adding a site means adding configuration (CSS
// selectors or a JSON-LD feed) rather than code. Pages are fetched through a
// Fetcher that retries transient failures with exponential backoff.
package scraper
