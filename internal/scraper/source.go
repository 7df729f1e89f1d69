package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// Built-in strategy names
const (
	StrategyJSONLD    = "jsonld"
	StrategySelectors = "selectors"
)

// Selectors are the CSS selectors used by the selectors strategy. Every
// selector except Item is evaluated relative to the matched item.
type Selectors struct {
	Item   string `yaml:"item"`
	Title  string `yaml:"title"`
	Link   string `yaml:"link"`
	Date   string `yaml:"date"`
	Venue  string `yaml:"venue"`
	Price  string `yaml:"price"`
	Artist string `yaml:"artist"`
	// DateAttr reads the date from an attribute (e.g. "datetime") instead of text
	DateAttr string `yaml:"date_attr"`
}

// Source describes one site to scrape
type Source struct {
	Name       string         `yaml:"name" validate:"required"`
	URL        string         `yaml:"url" validate:"required,url"`
	Category   event.Category `yaml:"category" validate:"oneof=music theatre culture"`
	Strategy   string         `yaml:"strategy"`
	FixedVenue string         `yaml:"fixed_venue"`
	Pages      int            `yaml:"pages" validate:"gte=0,lte=50"`
	PageParam  string         `yaml:"page_param"`
	RunOnDay   int            `yaml:"run_on_day" validate:"gte=0,lte=31"`
	Selectors  Selectors      `yaml:"selectors"`
}

// StrategyName returns the configured strategy, defaulting to JSON-LD
func (s Source) StrategyName() string {
	if s.Strategy == "" {
		return StrategyJSONLD
	}
	return s.Strategy
}

// PageCount returns how many pages to fetch (at least one)
func (s Source) PageCount() int {
	if s.Pages < 1 || s.PageParam == "" {
		return 1
	}
	return s.Pages
}

// PageURL returns the URL of the given 1-based page
func (s Source) PageURL(page int) (string, error) {
	if page <= 1 || s.PageParam == "" {
		return s.URL, nil
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("parsing source URL: %w", err)
	}
	q := u.Query()
	q.Set(s.PageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RunsOn reports whether the source should be scraped on the day of now.
// Sources without a run day run every day.
func (s Source) RunsOn(now time.Time) bool {
	return s.RunOnDay == 0 || now.In(event.Bucharest).Day() == s.RunOnDay
}

// Resolve turns a possibly relative link into an absolute URL
func (s Source) Resolve(link string) string {
	if link == "" {
		return ""
	}
	base, err := url.Parse(s.URL)
	if err != nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}
