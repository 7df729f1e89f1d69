package scraper

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// ErrNoItemSelector is returned when a selectors source has no item selector
var ErrNoItemSelector = errors.New("selectors strategy requires an item selector")

// ParseSelectors extracts one event per element matching src.Selectors.Item.
// Items without a title, link or parseable date are skipped.
func ParseSelectors(doc *goquery.Document, src Source) ([]event.Event, error) {
	sel := src.Selectors
	if sel.Item == "" {
		return nil, ErrNoItemSelector
	}

	events := make([]event.Event, 0)
	doc.Find(sel.Item).Each(func(i int, item *goquery.Selection) {
		title := text(item, sel.Title)
		if title == "" {
			return
		}

		link := attr(item, sel.Link, "href")
		if link == "" {
			return
		}

		var dateText string
		if sel.DateAttr != "" {
			dateText = attr(item, sel.Date, sel.DateAttr)
		} else {
			dateText = text(item, sel.Date)
		}
		date := event.ParseDate(dateText)
		if date.IsZero() {
			return
		}

		venue := src.FixedVenue
		if venue == "" {
			venue = text(item, sel.Venue)
		}
		if venue == "" {
			return
		}

		artist := text(item, sel.Artist)
		if artist == "" && sel.Artist == "" && src.Category == event.CategoryMusic {
			artist = ExtractArtist(title)
		}

		events = append(events, event.Event{
			Title:    title,
			Artist:   artist,
			Venue:    venue,
			Date:     date,
			URL:      src.Resolve(strings.Split(link, "?")[0]),
			Source:   src.Name,
			Category: src.Category,
			Price:    text(item, sel.Price),
		})
	})

	return events, nil
}

// text returns the collapsed text of the first match of selector within s.
// An empty selector means s itself.
func text(s *goquery.Selection, selector string) string {
	if selector != "" {
		s = s.Find(selector).First()
	}
	if s.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}

// attr returns an attribute of the first match of selector within s
func attr(s *goquery.Selection, selector, name string) string {
	if selector != "" {
		s = s.Find(selector).First()
	}
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}
