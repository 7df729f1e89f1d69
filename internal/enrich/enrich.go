// Package enrich adds optional metadata to deduplicated events: Spotify links
// for concerts, and descriptions, images and videos for theatre and culture
// listings. Enrichment never fails an event; on any error the event is kept
// as it was.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/logger"
)

const (
	DefaultMaxDescription = 500
	// minAIDescription discards answers too short to be a description
	minAIDescription = 20
)

// Fetcher downloads and parses a detail page
type Fetcher interface {
	Document(ctx context.Context, url string) (*goquery.Document, error)
}

// ArtistLinker finds an artist's page on a music service
type ArtistLinker interface {
	SearchArtist(ctx context.Context, name string) (string, error)
}

// Writer generates text from a prompt
type Writer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options configures an Enricher. Nil collaborators disable their step.
type Options struct {
	Fetcher        Fetcher
	Linker         ArtistLinker
	Writer         Writer
	Extractors     map[string]Extractor
	MaxDescription int
	Concurrency    int
}

// Enricher fills enrichment fields on events
type Enricher struct {
	fetcher    Fetcher
	linker     ArtistLinker
	writer     Writer
	extractors map[string]Extractor
	maxDesc    int
	limit      int
}

// New creates an Enricher
func New(opts Options) *Enricher {
	if opts.Extractors == nil {
		opts.Extractors = DefaultExtractors()
	}
	if opts.MaxDescription <= 3 {
		opts.MaxDescription = DefaultMaxDescription
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Enricher{
		fetcher:    opts.Fetcher,
		linker:     opts.Linker,
		writer:     opts.Writer,
		extractors: opts.Extractors,
		maxDesc:    opts.MaxDescription,
		limit:      opts.Concurrency,
	}
}

// Enrich returns a copy of events with enrichment applied, in the same order
func (e *Enricher) Enrich(ctx context.Context, events []event.Event) []event.Event {
	out := make([]event.Event, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, evt := range events {
		g.Go(func() error {
			out[i] = e.One(gctx, evt)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// One enriches a single event
func (e *Enricher) One(ctx context.Context, evt event.Event) event.Event {
	if evt.Category == event.CategoryMusic {
		return e.linkArtist(ctx, evt)
	}
	if evt.IsEnriched() {
		return evt
	}
	return e.details(ctx, evt)
}

func (e *Enricher) linkArtist(ctx context.Context, evt event.Event) event.Event {
	if e.linker == nil || !evt.HasArtist() || evt.SpotifyURL != "" {
		return evt
	}
	url, err := e.linker.SearchArtist(ctx, evt.Artist)
	if err != nil {
		logger.Warn("Artist lookup failed", logger.Fields{"artist": evt.Artist, "error": err.Error()})
		return evt
	}
	if url == "" {
		return evt
	}
	return evt.WithSpotifyURL(url)
}

func (e *Enricher) details(ctx context.Context, evt event.Event) event.Event {
	var d Details
	if e.fetcher != nil {
		doc, err := e.fetcher.Document(ctx, evt.URL)
		if err != nil {
			logger.Debug("Detail page unavailable", logger.Fields{"url": evt.URL, "error": err.Error()})
		} else {
			extract, ok := e.extractors[evt.Source]
			if !ok {
				extract = Generic
			}
			d = extract(doc, evt.URL)
		}
	}

	source := event.DescriptionScraped
	if d.Description == "" {
		d.Description = e.describe(ctx, evt)
		source = event.DescriptionAI
	}

	if d.Description == "" && d.ImageURL == "" && d.VideoURL == "" {
		return evt
	}
	return evt.WithDetails(Truncate(d.Description, e.maxDesc), source, d.ImageURL, d.VideoURL)
}

// describe asks the writer for a short Romanian description
func (e *Enricher) describe(ctx context.Context, evt event.Event) string {
	if e.writer == nil {
		return ""
	}
	text, err := e.writer.Complete(ctx, DescriptionPrompt(evt))
	if err != nil {
		logger.Warn("AI description failed", logger.Fields{"title": evt.Title, "error": err.Error()})
		return ""
	}
	text = strings.Trim(strings.TrimSpace(text), `"'„”`)
	if len([]rune(text)) <= minAIDescription {
		return ""
	}
	return text
}

// DescriptionPrompt builds the Romanian prompt used for AI descriptions
func DescriptionPrompt(evt event.Event) string {
	category := "Cultură"
	if evt.Category == event.CategoryTheatre {
		category = "Teatru"
	}

	var sb strings.Builder
	sb.WriteString("Ești un critic de teatru și cultură din București.\n")
	sb.WriteString("Generează o descriere scurtă și captivantă (2-3 propoziții, max 150 cuvinte) pentru acest eveniment:\n\n")
	fmt.Fprintf(&sb, "Titlu: %s\n", evt.Title)
	fmt.Fprintf(&sb, "Locație: %s\n", evt.Venue)
	fmt.Fprintf(&sb, "Categorie: %s\n", category)
	if evt.HasArtist() {
		fmt.Fprintf(&sb, "Artist/Autor: %s\n", evt.Artist)
	}
	sb.WriteString("\nDescrierea trebuie să fie în limba română, să sune natural și să incite curiozitatea spectatorului.\n")
	sb.WriteString("Nu inventa detalii specifice despre intrigă sau distribuție dacă nu sunt menționate.\n")
	sb.WriteString("Răspunde DOAR cu descrierea, fără prefixe sau explicații.")
	return sb.String()
}

// Truncate shortens s to n runes, ending with "..." when cut
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
