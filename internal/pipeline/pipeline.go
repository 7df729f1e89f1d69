package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/gigradar/internal/artist"
	"github.com/pfrederiksen/gigradar/internal/config"
	"github.com/pfrederiksen/gigradar/internal/dedup"
	"github.com/pfrederiksen/gigradar/internal/digest"
	"github.com/pfrederiksen/gigradar/internal/enrich"
	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/filter"
	"github.com/pfrederiksen/gigradar/internal/logger"
	"github.com/pfrederiksen/gigradar/internal/metrics"
	"github.com/pfrederiksen/gigradar/internal/notifier"
	"github.com/pfrederiksen/gigradar/internal/scraper"
	"github.com/pfrederiksen/gigradar/internal/storage"
	"github.com/pfrederiksen/gigradar/internal/venue"
)

// ErrNoArtistSource is returned by personalized runs with neither an artist
// file nor a Spotify client
var ErrNoArtistSource = errors.New("personalized run needs an artists file or Spotify credentials")

// Scraper returns the events of one source
type Scraper interface {
	Scrape(ctx context.Context, src scraper.Source) ([]event.Event, error)
}

// ArtistSource lists the artists a listener follows
type ArtistSource interface {
	FollowedArtists(ctx context.Context) ([]string, error)
}

// Deps are the collaborators of a Pipeline. Oracle, Artists, Enricher,
// Notifier and Metrics may be nil.
type Deps struct {
	Scraper  Scraper
	Store    *storage.Storage
	Oracle   dedup.Oracle
	Artists  ArtistSource
	Enricher *enrich.Enricher
	Notifier notifier.Notifier
	Metrics  *metrics.Recorder
}

// Options select the behaviour of a single run
type Options struct {
	// Personalized narrows the music section to followed artists
	Personalized bool
	// ArtistsFile overrides artist.file and Spotify as the followed list
	ArtistsFile string
	// DryRun skips saving the snapshot
	DryRun bool
	// Now is the run clock; zero means time.Now()
	Now time.Time
	// Categories limits scraping; empty means all
	Categories []event.Category
	// Filter narrows the digest; the snapshot always keeps every event
	Filter *filter.Filter
}

// Result summarizes a run
type Result struct {
	RunID   string                 `json:"run_id"`
	Sources int                    `json:"sources"`
	Scraped int                    `json:"scraped"`
	Invalid int                    `json:"invalid"`
	Kept    map[event.Category]int `json:"kept"`
	New     []event.Event          `json:"new"`
	Errors  []digest.ScrapeError   `json:"errors,omitempty"`
	Saved   bool                   `json:"saved"`
	Digest  digest.Digest          `json:"-"`
}

// Pipeline wires the dedup stages and collaborators for repeated runs
type Pipeline struct {
	cfg      *config.Config
	deps     Deps
	stage1   *dedup.Stage1
	semantic *dedup.Semantic
	matcher  *artist.Matcher
	validate *validator.Validate
}

// New creates a pipeline from a validated configuration
func New(cfg *config.Config, deps Deps) *Pipeline {
	venues := venue.NewNormalizer(cfg.Venues.Table())

	var oracle dedup.Oracle
	if cfg.Dedup.Semantic {
		oracle = deps.Oracle
	}

	var suffixes []string
	if len(cfg.Artist.Suffixes) > 0 {
		suffixes = cfg.Artist.Suffixes
	}

	return &Pipeline{
		cfg:  cfg,
		deps: deps,
		stage1: dedup.NewStage1(venues, dedup.Thresholds{
			Artist: cfg.Dedup.ArtistThreshold,
			Venue:  cfg.Dedup.VenueThreshold,
		}),
		semantic: dedup.NewSemantic(oracle),
		matcher:  artist.NewMatcher(cfg.Artist.MatchThreshold, suffixes),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Run performs one aggregation pass
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	result := &Result{RunID: uuid.NewString(), Kept: make(map[event.Category]int)}
	log := logger.Default().With(logger.Fields{"run_id": result.RunID})
	log.Info("Run started", logger.Fields{"personalized": opts.Personalized, "dry_run": opts.DryRun})

	var followed []string
	if opts.Personalized {
		var err error
		if followed, err = p.followedArtists(ctx, opts); err != nil {
			return nil, fmt.Errorf("loading followed artists: %w", err)
		}
		log.Info("Loaded followed artists", logger.Fields{"count": len(followed)})
	}

	snapshot, err := p.deps.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	previous := snapshot.Keys()
	log.Info("Loaded existing events", logger.Fields{"count": len(previous)})

	sources := p.Sources(opts.Categories, now)
	result.Sources = len(sources)

	raw, scrapeErrs := p.scrapeAll(ctx, log, sources)
	result.Scraped = len(raw)
	result.Errors = scrapeErrs

	valid := p.validEvents(log, raw)
	result.Invalid = len(raw) - len(valid)

	byCategory := event.ByCategory(valid)
	fresh := make([]event.Event, 0)
	for _, c := range event.Categories {
		kept := p.Dedup(ctx, c, byCategory[c])
		result.Kept[c] = len(kept)
		fresh = append(fresh, event.NewSince(kept, previous)...)
	}
	log.Info("Deduplicated events", logger.Fields{
		"music":   result.Kept[event.CategoryMusic],
		"theatre": result.Kept[event.CategoryTheatre],
		"culture": result.Kept[event.CategoryCulture],
		"new":     len(fresh),
	})

	if p.deps.Enricher != nil && p.cfg.Enrich.Enabled && len(fresh) > 0 {
		stop := p.deps.Metrics.Time(metrics.StageEnrich)
		fresh = p.deps.Enricher.Enrich(ctx, fresh)
		stop()
	}

	freshByCategory := event.ByCategory(fresh)
	for _, c := range event.Categories {
		merged := event.Merge(snapshot.Events(c), freshByCategory[c])
		if p.cfg.Retention.DropPast {
			merged = event.DropPast(merged, now)
		}
		snapshot.SetEvents(c, merged)
	}

	if !opts.DryRun {
		if err := p.deps.Store.Save(snapshot, now); err != nil {
			return nil, fmt.Errorf("saving snapshot: %w", err)
		}
		result.Saved = true
	}

	d := p.buildDigest(opts.Filter.Apply(fresh), followed, opts.Personalized, now)
	d.Errors = scrapeErrs
	result.Digest = d
	result.New = d.All()
	for _, c := range event.Categories {
		p.deps.Metrics.NewEvents(string(c), len(d.Events(c)))
	}
	p.deps.Metrics.Finished(now)

	log.Info("Run finished", logger.Fields{
		"new":           d.Total(),
		"scrape_errors": len(scrapeErrs),
		"saved":         result.Saved,
	})

	if d.Empty() || p.deps.Notifier == nil {
		return result, nil
	}
	if err := p.deps.Notifier.Notify(ctx, d); err != nil {
		return result, fmt.Errorf("delivering digest: %w", err)
	}
	return result, nil
}

// Sources returns the sources to scrape in this run: those of the requested
// categories that are due today, listed priority sources first
func (p *Pipeline) Sources(categories []event.Category, now time.Time) []scraper.Source {
	sources := p.cfg.EnabledSources(categories...)

	due := make([]scraper.Source, 0, len(sources))
	for _, src := range sources {
		if !src.RunsOn(now) {
			logger.Debug("Skipping source not due today", logger.Fields{"source": src.Name, "run_on_day": src.RunOnDay})
			continue
		}
		due = append(due, src)
	}
	return OrderByPriority(due, p.cfg.Sources.Priority)
}

// OrderByPriority stable-sorts sources so that those named in priority come
// first, in priority order. Unlisted sources keep their relative order.
func OrderByPriority(sources []scraper.Source, priority []string) []scraper.Source {
	rank := make(map[string]int, len(priority))
	for i, name := range priority {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}
	ordered := slices.Clone(sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rankOf(rank, ordered[i].Name) < rankOf(rank, ordered[j].Name)
	})
	return ordered
}

func rankOf(rank map[string]int, name string) int {
	if r, ok := rank[name]; ok {
		return r
	}
	return len(rank)
}

// scrapeAll runs the scrapers in parallel and concatenates their results in
// source order. A failing source contributes no events and one ScrapeError.
func (p *Pipeline) scrapeAll(ctx context.Context, log *logger.Logger, sources []scraper.Source) ([]event.Event, []digest.ScrapeError) {
	stop := p.deps.Metrics.Time(metrics.StageScrape)
	defer stop()

	results := make([][]event.Event, len(sources))
	failures := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Scrape.Concurrency)
	for i, src := range sources {
		g.Go(func() error {
			events, err := p.deps.Scraper.Scrape(gctx, src)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = events
			return nil
		})
	}
	_ = g.Wait()

	var all []event.Event
	var errs []digest.ScrapeError
	for i, src := range sources {
		if failures[i] != nil {
			log.Error("Scraper failed", logger.Fields{"source": src.Name}, failures[i])
			p.deps.Metrics.ScrapeFailed(src.Name)
			errs = append(errs, digest.ScrapeError{Source: src.Name, Message: failures[i].Error()})
			continue
		}
		log.Info("Scraped source", logger.Fields{"source": src.Name, "events": len(results[i])})
		p.deps.Metrics.Scraped(src.Name, len(results[i]))
		all = append(all, results[i]...)
	}
	return all, errs
}

// validEvents drops records missing a required field
func (p *Pipeline) validEvents(log *logger.Logger, events []event.Event) []event.Event {
	valid := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if err := p.validate.Struct(evt); err != nil {
			log.Debug("Dropping invalid event", logger.Fields{"source": evt.Source, "title": evt.Title, "error": err.Error()})
			continue
		}
		valid = append(valid, evt)
	}
	return valid
}

// Dedup runs Stage1 on one category, followed by the semantic pass for music
func (p *Pipeline) Dedup(ctx context.Context, c event.Category, events []event.Event) []event.Event {
	stop := p.deps.Metrics.Time(metrics.StageStage1)
	kept := p.stage1.Dedup(events)
	stop()
	p.deps.Metrics.Removed(metrics.StageStage1, len(events), len(kept))

	if c != event.CategoryMusic || !p.semantic.Enabled() {
		return kept
	}

	before := len(kept)
	stop = p.deps.Metrics.Time(metrics.StageSemantic)
	kept = p.semantic.Dedup(ctx, kept)
	stop()
	p.deps.Metrics.Removed(metrics.StageSemantic, before, len(kept))
	return kept
}

// Match narrows events to the followed artists
func (p *Pipeline) Match(events []event.Event, followed []string) []event.Event {
	stop := p.deps.Metrics.Time(metrics.StageMatch)
	defer stop()
	matched := p.matcher.Match(events, followed)
	p.deps.Metrics.Removed(metrics.StageMatch, len(events), len(matched))
	return matched
}

func (p *Pipeline) followedArtists(ctx context.Context, opts Options) ([]string, error) {
	path := opts.ArtistsFile
	if path == "" {
		path = p.cfg.Artist.File
	}
	if path != "" {
		return artist.LoadFile(path)
	}
	if p.deps.Artists == nil {
		return nil, ErrNoArtistSource
	}
	return p.deps.Artists.FollowedArtists(ctx)
}

func (p *Pipeline) buildDigest(fresh []event.Event, followed []string, personalized bool, now time.Time) digest.Digest {
	upcoming := make([]event.Event, 0, len(fresh))
	for _, evt := range fresh {
		if evt.IsWithinDays(p.cfg.Digest.Days, now) {
			upcoming = append(upcoming, evt)
		}
	}

	d := digest.New(p.cfg.Digest.Title, upcoming, now)
	if personalized {
		d.Personalized = true
		d.Music = p.Match(d.Music, followed)
	}
	return d
}
