// Package config loads gigradar configuration from YAML, struct defaults and
// environment variables.
//
// Precedence, lowest first: `default` struct tags, the YAML file, then
// environment variables for secrets. Secrets are never expected in the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/logger"
	"github.com/pfrederiksen/gigradar/internal/scraper"
	"github.com/pfrederiksen/gigradar/internal/venue"
)

// Notification channel names
const (
	ChannelDryRun   = "dryrun"
	ChannelFile     = "file"
	ChannelEmail    = "email"
	ChannelTwitter  = "twitter"
	ChannelTelegram = "telegram"
)

var channels = []string{ChannelDryRun, ChannelFile, ChannelEmail, ChannelTwitter, ChannelTelegram}

type DedupConfig struct {
	ArtistThreshold float64 `yaml:"artist_threshold" default:"85"`
	VenueThreshold  float64 `yaml:"venue_threshold" default:"80"`
	// Semantic enables the oracle stage when a Gemini key is present
	Semantic bool `yaml:"semantic" default:"true"`
}

type ArtistConfig struct {
	MatchThreshold float64  `yaml:"match_threshold" default:"85"`
	Suffixes       []string `yaml:"suffixes"`
	File           string   `yaml:"file"`
}

type VenuesConfig struct {
	Aliases         venue.Aliases `yaml:"aliases"`
	ReplaceDefaults bool          `yaml:"replace_defaults"`
}

// Table returns the alias table in effect: the built-in table extended (or
// replaced) by the configured aliases
func (c VenuesConfig) Table() venue.Aliases {
	out := make(venue.Aliases)
	if !c.ReplaceDefaults {
		for k, v := range venue.DefaultAliases {
			out[k] = append([]string(nil), v...)
		}
	}
	for k, v := range c.Aliases {
		out[k] = append(out[k], v...)
	}
	return out
}

type SourcesConfig struct {
	// Priority lists source names whose events win ties in dedup, highest first
	Priority []string         `yaml:"priority"`
	Sites    []scraper.Source `yaml:"sites"`
}

type ScrapeConfig struct {
	Concurrency     int           `yaml:"concurrency" default:"4"`
	Timeout         time.Duration `yaml:"timeout" default:"30s"`
	UserAgent       string        `yaml:"user_agent"`
	MaxRetries      uint64        `yaml:"max_retries" default:"3"`
	InitialInterval time.Duration `yaml:"initial_interval" default:"500ms"`
	MaxElapsed      time.Duration `yaml:"max_elapsed" default:"1m"`
}

type GeminiConfig struct {
	APIKey      string        `yaml:"-"`
	Model       string        `yaml:"model" default:"gemini-2.5-flash-lite"`
	BaseURL     string        `yaml:"base_url" default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout     time.Duration `yaml:"timeout" default:"60s"`
	Temperature float64       `yaml:"temperature"`
}

type SpotifyConfig struct {
	ClientID     string        `yaml:"-"`
	ClientSecret string        `yaml:"-"`
	RefreshToken string        `yaml:"-"`
	AccountsURL  string        `yaml:"accounts_url" default:"https://accounts.spotify.com"`
	APIURL       string        `yaml:"api_url" default:"https://api.spotify.com/v1"`
	Timeout      time.Duration `yaml:"timeout" default:"15s"`
	CacheSize    int           `yaml:"cache_size" default:"1024"`
	CacheTTL     time.Duration `yaml:"cache_ttl" default:"24h"`
}

// Configured reports whether client credentials are present
func (c SpotifyConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type EnrichConfig struct {
	Enabled        bool `yaml:"enabled" default:"true"`
	Concurrency    int  `yaml:"concurrency" default:"4"`
	MaxDescription int  `yaml:"max_description" default:"500"`
	AIFallback     bool `yaml:"ai_fallback" default:"true"`
}

type DigestConfig struct {
	Title string `yaml:"title" default:"GigRadar Weekly"`
	// Days limits the digest to events in the next N days; 0 includes everything new
	Days int  `yaml:"days" default:"0"`
	ICS  bool `yaml:"ics" default:"true"`
}

type FileNotifyConfig struct {
	Dir string `yaml:"dir"`
}

type EmailNotifyConfig struct {
	APIKey  string `yaml:"-"`
	To      string `yaml:"to"`
	From    string `yaml:"from" default:"GigRadar <gigradar@resend.dev>"`
	BaseURL string `yaml:"base_url" default:"https://api.resend.com"`
}

type TelegramNotifyConfig struct {
	BotToken string `yaml:"-"`
	ChatID   string `yaml:"chat_id"`
	BaseURL  string `yaml:"base_url" default:"https://api.telegram.org"`
}

type TwitterNotifyConfig struct {
	APIKey       string `yaml:"-"`
	APISecret    string `yaml:"-"`
	AccessToken  string `yaml:"-"`
	AccessSecret string `yaml:"-"`
	MaxPosts     int    `yaml:"max_posts" default:"5"`
}

type NotifyConfig struct {
	Channels []string             `yaml:"channels" default:"[\"file\"]"`
	File     FileNotifyConfig     `yaml:"file"`
	Email    EmailNotifyConfig    `yaml:"email"`
	Telegram TelegramNotifyConfig `yaml:"telegram"`
	Twitter  TwitterNotifyConfig  `yaml:"twitter"`
}

type RetentionConfig struct {
	DropPast bool `yaml:"drop_past" default:"true"`
}

// Config is the complete gigradar configuration
type Config struct {
	Log       logger.Config   `yaml:"log"`
	DataDir   string          `yaml:"data_dir" default:"~/.gigradar"`
	Dedup     DedupConfig     `yaml:"dedup"`
	Artist    ArtistConfig    `yaml:"artist"`
	Venues    VenuesConfig    `yaml:"venues"`
	Sources   SourcesConfig   `yaml:"sources"`
	Scrape    ScrapeConfig    `yaml:"scrape"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Spotify   SpotifyConfig   `yaml:"spotify"`
	Enrich    EnrichConfig    `yaml:"enrich"`
	Digest    DigestConfig    `yaml:"digest"`
	Notify    NotifyConfig    `yaml:"notify"`
	Retention RetentionConfig `yaml:"retention"`
}

// New returns a configuration populated with defaults and the built-in sources
func New() *Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	cfg.Sources.Sites = DefaultSources()
	return &cfg
}

// Load reads the YAML file at path (optional), then applies environment
// overrides and validates the result
func Load(path string) (*Config, error) {
	return NewLoader().WithFilename(path).Load()
}

// Loader assembles a Config from its layers
type Loader struct {
	filename string
	content  []byte
	lookup   func(string) (string, bool)
}

// NewLoader creates a loader reading the process environment
func NewLoader() *Loader {
	return &Loader{lookup: os.LookupEnv}
}

// WithFilename sets the YAML file to read
func (l *Loader) WithFilename(filename string) *Loader {
	l.filename = filename
	return l
}

// WithContent uses YAML content directly instead of a file
func (l *Loader) WithContent(content []byte) *Loader {
	l.content = content
	return l
}

// WithEnv replaces the environment lookup
func (l *Loader) WithEnv(lookup func(string) (string, bool)) *Loader {
	l.lookup = lookup
	return l
}

// Load builds and validates the configuration
func (l *Loader) Load() (*Config, error) {
	cfg := New()

	content := l.content
	if content == nil && l.filename != "" {
		b, err := os.ReadFile(l.filename)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		content = b
	}
	if len(content) > 0 {
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		for i := range cfg.Sources.Sites {
			if cfg.Sources.Sites[i].Strategy == "" {
				cfg.Sources.Sites[i].Strategy = scraper.StrategyJSONLD
			}
		}
	}

	cfg.applyEnv(l.lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv copies secrets (and a few deployment settings) from the environment
func (cfg *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&cfg.DataDir, "GIGRADAR_DATA_DIR")
	set(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	set(&cfg.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	set(&cfg.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	set(&cfg.Spotify.RefreshToken, "SPOTIFY_REFRESH_TOKEN")
	set(&cfg.Notify.Email.APIKey, "RESEND_API_KEY")
	set(&cfg.Notify.Email.To, "DIGEST_TO_EMAIL")
	set(&cfg.Notify.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	set(&cfg.Notify.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	set(&cfg.Notify.Twitter.APIKey, "TWITTER_API_KEY")
	set(&cfg.Notify.Twitter.APISecret, "TWITTER_API_SECRET")
	set(&cfg.Notify.Twitter.AccessToken, "TWITTER_ACCESS_TOKEN")
	set(&cfg.Notify.Twitter.AccessSecret, "TWITTER_ACCESS_SECRET")

	if v, ok := lookup("GIGRADAR_LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = logger.Level(v)
	}
}

func checkThreshold(name string, v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s must be in the range [0, 100]", name)
	}
	return nil
}

var validate = validator.New()

// Validate returns the first configuration error found
func (cfg Config) Validate() error {
	if _, err := logger.ParseLevel(string(cfg.Log.Level)); err != nil {
		return err
	}
	if !slices.Contains([]logger.Format{logger.FormatJSON, logger.FormatText}, cfg.Log.Format) {
		return fmt.Errorf("invalid log format: %s", cfg.Log.Format)
	}
	if cfg.DataDir == "" {
		return errors.New("data_dir is required")
	}
	if err := checkThreshold("dedup.artist_threshold", cfg.Dedup.ArtistThreshold); err != nil {
		return err
	}
	if err := checkThreshold("dedup.venue_threshold", cfg.Dedup.VenueThreshold); err != nil {
		return err
	}
	if err := checkThreshold("artist.match_threshold", cfg.Artist.MatchThreshold); err != nil {
		return err
	}
	if cfg.Scrape.Concurrency < 1 {
		return errors.New("scrape.concurrency must be at least 1")
	}
	if cfg.Enrich.Concurrency < 1 {
		return errors.New("enrich.concurrency must be at least 1")
	}
	if cfg.Enrich.MaxDescription < 4 {
		return errors.New("enrich.max_description must be at least 4")
	}
	if cfg.Digest.Days < 0 {
		return errors.New("digest.days must not be negative")
	}

	registry := scraper.NewRegistry()
	names := make(map[string]bool, len(cfg.Sources.Sites))
	for _, src := range cfg.Sources.Sites {
		if err := validate.Struct(src); err != nil {
			return fmt.Errorf("invalid source %q: %w", src.Name, err)
		}
		if names[src.Name] {
			return fmt.Errorf("duplicate source: %s", src.Name)
		}
		names[src.Name] = true
		if !registry.Has(src.StrategyName()) {
			return fmt.Errorf("source %s: unknown strategy %q", src.Name, src.StrategyName())
		}
		if src.StrategyName() == scraper.StrategySelectors && src.Selectors.Item == "" {
			return fmt.Errorf("source %s: selectors.item is required", src.Name)
		}
	}
	for _, name := range cfg.Sources.Priority {
		if !names[name] {
			return fmt.Errorf("sources.priority names unknown source: %s", name)
		}
	}

	for _, ch := range cfg.Notify.Channels {
		if !slices.Contains(channels, ch) {
			return fmt.Errorf("invalid notify channel: %s", ch)
		}
	}
	return nil
}

// EnabledSources returns the sources of the given categories (all when none given)
func (cfg Config) EnabledSources(categories ...event.Category) []scraper.Source {
	out := make([]scraper.Source, 0, len(cfg.Sources.Sites))
	for _, src := range cfg.Sources.Sites {
		if len(categories) == 0 || slices.Contains(categories, src.Category) {
			out = append(out, src)
		}
	}
	return out
}
