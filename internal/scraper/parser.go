package scraper

import (
	"fmt"
	"sort"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// Parser extracts events from one fetched page of a source
type Parser interface {
	Parse(doc *goquery.Document, src Source) ([]event.Event, error)
}

// ParserFunc adapts a function to the Parser interface
type ParserFunc func(doc *goquery.Document, src Source) ([]event.Event, error)

// Parse calls f(doc, src)
func (f ParserFunc) Parse(doc *goquery.Document, src Source) ([]event.Event, error) {
	return f(doc, src)
}

// Registry maps strategy names to parsers
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates a registry holding the built-in strategies
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(StrategyJSONLD, ParserFunc(ParseJSONLD))
	r.Register(StrategySelectors, ParserFunc(ParseSelectors))
	return r
}

// Register adds or replaces the parser for a strategy
func (r *Registry) Register(name string, p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[name] = p
}

// Lookup returns the parser for a source's strategy
func (r *Registry) Lookup(src Source) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[src.StrategyName()]
	if !ok {
		return nil, fmt.Errorf("source %s: unknown strategy %q", src.Name, src.StrategyName())
	}
	return p, nil
}

// Has reports whether a strategy is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parsers[name]
	return ok
}

// Strategies returns the registered strategy names, sorted
func (r *Registry) Strategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
