package config

import (
	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/scraper"
)

// DefaultSources is the built-in source list, in dedup priority order.
// Ticketing aggregators come first so their richer listings win ties.
func DefaultSources() []scraper.Source {
	return []scraper.Source{
		{
			Name:      "iabilet",
			URL:       "https://www.iabilet.ro/bilete-in-bucuresti/",
			Category:  event.CategoryMusic,
			Strategy:  scraper.StrategySelectors,
			Pages:     10,
			PageParam: "page",
			Selectors: scraper.Selectors{
				Item:  ".event-list-item",
				Title: ".title a span",
				Link:  ".title a",
				Date:  ".date-start",
				Venue: ".location .venue span",
				Price: ".price",
			},
		},
		{
			Name:      "eventbook",
			URL:       "https://eventbook.ro/city/bucuresti",
			Category:  event.CategoryMusic,
			Strategy:  scraper.StrategySelectors,
			Pages:     5,
			PageParam: "page",
			Selectors: scraper.Selectors{
				Item:  ".event-row",
				Title: "a.event-title h5",
				Link:  "a.event-title",
				Date:  ".text-danger h5",
				Venue: `a[href*="/hall/"]`,
				Price: "h5.text-uppercase",
			},
		},
		{
			Name:       "control",
			URL:        "https://www.control-club.ro/events/",
			Category:   event.CategoryMusic,
			Strategy:   scraper.StrategyJSONLD,
			FixedVenue: "Control",
		},
		{
			Name:       "quantic",
			URL:        "https://quantic.pub/evenimente/",
			Category:   event.CategoryMusic,
			Strategy:   scraper.StrategySelectors,
			FixedVenue: "Quantic",
			Selectors: scraper.Selectors{
				Item:     "article.tribe-events-calendar-month__calendar-event",
				Title:    "a.tribe-events-calendar-month__calendar-event-title-link",
				Link:     "a.tribe-events-calendar-month__calendar-event-title-link",
				Date:     "time[datetime]",
				DateAttr: "datetime",
			},
		},
		{
			Name:       "expirat",
			URL:        "https://expirat.org/schedule/events-live-act/",
			Category:   event.CategoryMusic,
			Strategy:   scraper.StrategySelectors,
			FixedVenue: "Expirat",
			Selectors: scraper.Selectors{
				Item:  "article.mec-event-article",
				Title: "h4.mec-event-title",
				Link:  "h4.mec-event-title a",
				Date:  ".mec-start-date-label",
			},
		},
		{
			Name:       "hardrock",
			URL:        "https://cafe.hardrock.com/bucharest/event-calendar.aspx",
			Category:   event.CategoryMusic,
			Strategy:   scraper.StrategyJSONLD,
			FixedVenue: "Hard Rock Cafe",
			Pages:      3,
			PageParam:  "pagenumber",
		},
		{
			Name:       "garana",
			URL:        "https://garana-jazz.ro/",
			Category:   event.CategoryMusic,
			Strategy:   scraper.StrategyJSONLD,
			FixedVenue: "Gărâna Jazz Festival",
			RunOnDay:   1,
		},
		{
			Name:     "tnb",
			URL:      "https://www.tnb.ro/ro/calendar",
			Category: event.CategoryTheatre,
			Strategy: scraper.StrategySelectors,
			Selectors: scraper.Selectors{
				Item:     ".fc-day-grid-event",
				Title:    ".toltip_text h3",
				Link:     ".toltip_text a[href]",
				Date:     "[data-date]",
				DateAttr: "data-date",
				Venue:    ".toltip_text .location",
			},
		},
		{
			Name:       "bulandra",
			URL:        "https://www.bulandra.ro/program/",
			Category:   event.CategoryTheatre,
			Strategy:   scraper.StrategyJSONLD,
			FixedVenue: "Teatrul Bulandra",
		},
		{
			Name:     "teatrulmic",
			URL:      "https://www.teatrulmic.ro/program-spectacole/",
			Category: event.CategoryTheatre,
			Strategy: scraper.StrategySelectors,
			Selectors: scraper.Selectors{
				Item:  ".spectacol",
				Title: ".right .title a",
				Link:  ".right .title a",
				Date:  ".left .date",
				Venue: ".right .sala",
			},
		},
		{
			Name:       "arcub",
			URL:        "https://arcub.ro/agenda",
			Category:   event.CategoryCulture,
			Strategy:   scraper.StrategySelectors,
			FixedVenue: "ARCUB",
			Selectors: scraper.Selectors{
				Item:  ".event-card",
				Title: "h3",
				Link:  "a",
				Date:  ".meta span",
			},
		},
		{
			Name:       "mnac",
			URL:        "https://www.mnac.ro/event-list/93/EVENIMENTE/67/events/1",
			Category:   event.CategoryCulture,
			Strategy:   scraper.StrategySelectors,
			FixedVenue: "MNAC",
			Selectors: scraper.Selectors{
				Item:  ".listEvents",
				Title: ".title",
				Link:  "a[href^='/event/']",
				Date:  "vbn-date-format",
			},
		},
	}
}
