package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// keys starting with @ are escaped so gjson does not read them as modifiers
const (
	typePath  = `\@type`
	graphPath = `\@graph`
)

// eventTypes are the schema.org types accepted as events
var eventTypes = map[string]bool{
	"Event":           true,
	"MusicEvent":      true,
	"TheaterEvent":    true,
	"ComedyEvent":     true,
	"DanceEvent":      true,
	"ExhibitionEvent": true,
	"Festival":        true,
	"SocialEvent":     true,
}

// ParseJSONLD extracts schema.org Event objects from ld+json script blocks
func ParseJSONLD(doc *goquery.Document, src Source) ([]event.Event, error) {
	events := make([]event.Event, 0)

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		raw = strings.TrimPrefix(raw, "//<![CDATA[")
		raw = strings.TrimSuffix(raw, "//]]>")
		raw = strings.TrimSpace(raw)
		if !gjson.Valid(raw) {
			return
		}

		for _, obj := range flattenLD(gjson.Parse(raw)) {
			if evt, ok := jsonLDEvent(obj, src); ok {
				events = append(events, evt)
			}
		}
	})

	return events, nil
}

// flattenLD unwraps arrays and @graph containers into a list of objects
func flattenLD(v gjson.Result) []gjson.Result {
	switch {
	case v.IsArray():
		var out []gjson.Result
		for _, item := range v.Array() {
			out = append(out, flattenLD(item)...)
		}
		return out
	case v.Get(graphPath).IsArray():
		return flattenLD(v.Get(graphPath))
	case v.IsObject():
		return []gjson.Result{v}
	default:
		return nil
	}
}

func isEventType(obj gjson.Result) bool {
	t := obj.Get(typePath)
	if t.IsArray() {
		for _, v := range t.Array() {
			if eventTypes[v.String()] {
				return true
			}
		}
		return false
	}
	return eventTypes[t.String()]
}

func jsonLDEvent(obj gjson.Result, src Source) (event.Event, bool) {
	if !isEventType(obj) {
		return event.Event{}, false
	}

	title := strings.TrimSpace(obj.Get("name").String())
	date := event.ParseDate(obj.Get("startDate").String())
	if title == "" || date.IsZero() {
		return event.Event{}, false
	}

	venue := src.FixedVenue
	if venue == "" {
		venue = strings.TrimSpace(obj.Get("location.name").String())
		if venue == "" {
			venue = strings.TrimSpace(obj.Get("location.0.name").String())
		}
	}
	if venue == "" {
		return event.Event{}, false
	}

	artist := strings.TrimSpace(obj.Get("performer.name").String())
	if artist == "" {
		artist = strings.TrimSpace(obj.Get("performer.0.name").String())
	}
	if artist == "" && src.Category == event.CategoryMusic {
		artist = ExtractArtist(title)
	}

	link := obj.Get("url").String()
	if link == "" {
		link = src.URL
	}

	return event.Event{
		Title:    title,
		Artist:   artist,
		Venue:    venue,
		Date:     date,
		URL:      src.Resolve(link),
		Source:   src.Name,
		Category: src.Category,
		Price:    jsonLDPrice(obj),
	}, true
}

func jsonLDPrice(obj gjson.Result) string {
	offer := obj.Get("offers")
	if offer.IsArray() {
		offer = offer.Get("0")
	}
	price := offer.Get("price")
	if !price.Exists() {
		price = offer.Get("lowPrice")
	}
	if !price.Exists() || price.String() == "" {
		return ""
	}
	if currency := offer.Get("priceCurrency").String(); currency != "" {
		return price.String() + " " + currency
	}
	return price.String()
}
