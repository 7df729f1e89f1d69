package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/pfrederiksen/gigradar/internal/config"
	"github.com/pfrederiksen/gigradar/internal/enrich"
	"github.com/pfrederiksen/gigradar/internal/gemini"
	"github.com/pfrederiksen/gigradar/internal/logger"
	"github.com/pfrederiksen/gigradar/internal/metrics"
	"github.com/pfrederiksen/gigradar/internal/notifier"
	"github.com/pfrederiksen/gigradar/internal/scraper"
	"github.com/pfrederiksen/gigradar/internal/spotify"
	"github.com/pfrederiksen/gigradar/internal/storage"
)

// Build wires the production collaborators described by cfg. Optional
// services without credentials are left out and logged.
func Build(cfg *config.Config, out io.Writer, dryRun bool, recorder *metrics.Recorder) (*Pipeline, error) {
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	fetcher := NewFetcher(cfg.Scrape)
	deps := Deps{
		Scraper: scraper.New(fetcher, nil),
		Store:   store,
		Metrics: recorder,
	}

	llm, err := NewGemini(cfg.Gemini)
	if err != nil {
		return nil, err
	}

	spot, err := NewSpotify(cfg.Spotify)
	if err != nil {
		return nil, err
	}

	enrichOpts := enrich.Options{
		Fetcher:        fetcher,
		MaxDescription: cfg.Enrich.MaxDescription,
		Concurrency:    cfg.Enrich.Concurrency,
	}
	// Nil interfaces must stay nil, not typed nil pointers
	if llm != nil {
		deps.Oracle = llm
		if cfg.Enrich.AIFallback {
			enrichOpts.Writer = llm
		}
	}
	if spot != nil {
		deps.Artists = spot
		enrichOpts.Linker = spot
	}
	deps.Enricher = enrich.New(enrichOpts)

	channels, err := notifier.FromConfig(cfg.Notify, store.Dir(), cfg.Digest.ICS, dryRun, out)
	if err != nil {
		return nil, err
	}
	deps.Notifier = channels

	return New(cfg, deps), nil
}

// NewFetcher builds the HTTP fetcher shared by scrapers and enrichment
func NewFetcher(cfg config.ScrapeConfig) *scraper.Fetcher {
	return scraper.NewFetcher(scraper.FetchOptions{
		Timeout:         cfg.Timeout,
		UserAgent:       cfg.UserAgent,
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: cfg.InitialInterval,
		MaxElapsed:      cfg.MaxElapsed,
	})
}

// NewGemini returns nil without error when no API key is configured
func NewGemini(cfg config.GeminiConfig) (*gemini.Client, error) {
	client, err := gemini.New(gemini.Options{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
	})
	if errors.Is(err, gemini.ErrNoAPIKey) {
		logger.Info("GEMINI_API_KEY not set, semantic dedup and AI descriptions disabled", nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return client, nil
}

// NewSpotify returns nil without error when no client credentials are configured
func NewSpotify(cfg config.SpotifyConfig) (*spotify.Client, error) {
	if !cfg.Configured() {
		logger.Info("SPOTIFY_CLIENT_ID not set, skipping Spotify enrichment", nil)
		return nil, nil
	}
	client, err := spotify.New(spotify.Options{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
		AccountsURL:  cfg.AccountsURL,
		APIURL:       cfg.APIURL,
		Timeout:      cfg.Timeout,
	}, spotify.NewTokenCache(), spotify.NewSearchCache(cfg.CacheSize, cfg.CacheTTL))
	if err != nil {
		return nil, fmt.Errorf("creating spotify client: %w", err)
	}
	return client, nil
}
