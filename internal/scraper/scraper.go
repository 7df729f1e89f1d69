package scraper

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/logger"
)

// Scraper fetches sources and parses them with the registered strategies
type Scraper struct {
	fetcher  *Fetcher
	registry *Registry
}

// New creates a Scraper. A nil registry selects the built-in strategies.
func New(fetcher *Fetcher, registry *Registry) *Scraper {
	if fetcher == nil {
		fetcher = NewFetcher(FetchOptions{})
	}
	if registry == nil {
		registry = NewRegistry()
	}
	return &Scraper{fetcher: fetcher, registry: registry}
}

// Registry returns the strategy registry
func (s *Scraper) Registry() *Registry {
	return s.registry
}

// Scrape fetches every page of src and returns its events, unique by URL and
// day (a festival page may list several days under one link).
// Pagination stops at the first page that yields nothing new.
func (s *Scraper) Scrape(ctx context.Context, src Source) ([]event.Event, error) {
	parser, err := s.registry.Lookup(src)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	events := make([]event.Event, 0)

	for page := 1; page <= src.PageCount(); page++ {
		pageURL, err := src.PageURL(page)
		if err != nil {
			return nil, err
		}

		doc, err := s.fetcher.Document(ctx, pageURL)
		if err != nil {
			if page > 1 {
				logger.Warn("Stopping pagination after fetch error", logger.Fields{
					"source": src.Name,
					"page":   page,
					"error":  err.Error(),
				})
				break
			}
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		parsed, err := parser.Parse(doc, src)
		if err != nil {
			return nil, fmt.Errorf("source %s: parsing page %d: %w", src.Name, page, err)
		}

		added := 0
		for _, evt := range parsed {
			key := evt.URL + "|" + evt.Day()
			if seen[key] {
				continue
			}
			seen[key] = true
			events = append(events, evt)
			added++
		}

		logger.Debug("Scraped page", logger.Fields{"source": src.Name, "page": page, "events": added})
		if added == 0 {
			break
		}
	}

	return events, nil
}
