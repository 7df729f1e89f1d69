// Package spotify reads a user's followed artists and looks up artist pages
// through the Spotify Web API.
//
// Access tokens are obtained with the refresh-token grant when a refresh token
// is configured (needed for the follow graph) and with the client-credentials
// grant otherwise. Tokens live in an injected TokenCache; search results live
// in an injected expiring LRU so repeated lookups within a run are free.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tidwall/gjson"

	"github.com/pfrederiksen/gigradar/internal/fuzzy"
)

const (
	DefaultAccountsURL = "https://accounts.spotify.com"
	DefaultAPIURL      = "https://api.spotify.com/v1"
	DefaultTimeout     = 15 * time.Second

	// nameThreshold is the fuzzy ratio a search hit's name must exceed
	nameThreshold = 85.0
)

var (
	// ErrNotConfigured is returned by New when client credentials are missing
	ErrNotConfigured = errors.New("spotify client credentials not configured")
	// ErrNoRefreshToken is returned for user endpoints without a refresh token
	ErrNoRefreshToken = errors.New("spotify refresh token not configured")
)

// SearchCache caches artist name → Spotify URL ("" for no match)
type SearchCache = expirable.LRU[string, string]

// NewSearchCache creates an expiring LRU for search results
func NewSearchCache(size int, ttl time.Duration) *SearchCache {
	if size <= 0 {
		size = 1024
	}
	return expirable.NewLRU[string, string](size, nil, ttl)
}

// Options configures a Client
type Options struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccountsURL  string
	APIURL       string
	Timeout      time.Duration
}

// Client talks to the Spotify accounts service and Web API
type Client struct {
	accounts *resty.Client
	api      *resty.Client
	opts     Options
	tokens   *TokenCache
	searches *SearchCache
}

// New creates a client. tokens and searches are required collaborators;
// passing nil creates private ones.
func New(opts Options, tokens *TokenCache, searches *SearchCache) (*Client, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, ErrNotConfigured
	}
	if opts.AccountsURL == "" {
		opts.AccountsURL = DefaultAccountsURL
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if tokens == nil {
		tokens = NewTokenCache()
	}
	if searches == nil {
		searches = NewSearchCache(0, 24*time.Hour)
	}

	return &Client{
		accounts: resty.New().SetBaseURL(strings.TrimSuffix(opts.AccountsURL, "/")).SetTimeout(opts.Timeout),
		api:      resty.New().SetBaseURL(strings.TrimSuffix(opts.APIURL, "/")).SetTimeout(opts.Timeout),
		opts:     opts,
		tokens:   tokens,
		searches: searches,
	}, nil
}

// token returns a valid access token, requesting a new one when the cache is empty
func (c *Client) token(ctx context.Context) (string, error) {
	if tok, ok := c.tokens.Get(); ok {
		return tok, nil
	}

	form := map[string]string{"grant_type": "client_credentials"}
	if c.opts.RefreshToken != "" {
		form = map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": c.opts.RefreshToken,
		}
	}

	resp, err := c.accounts.R().
		SetContext(ctx).
		SetBasicAuth(c.opts.ClientID, c.opts.ClientSecret).
		SetFormData(form).
		Post("/api/token")
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode(),
			gjson.Get(resp.String(), "error_description").String())
	}

	tok := gjson.Get(resp.String(), "access_token").String()
	if tok == "" {
		return "", errors.New("token response has no access_token")
	}
	lifetime := time.Duration(gjson.Get(resp.String(), "expires_in").Int()) * time.Second
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	c.tokens.Set(tok, lifetime)
	return tok, nil
}

// get performs an authenticated GET against the Web API. A path starting with
// http is used as is (pagination cursors are absolute URLs).
func (c *Client) get(ctx context.Context, path string, query map[string]string) (string, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	resp, err := c.api.R().
		SetContext(ctx).
		SetAuthToken(tok).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return "", fmt.Errorf("calling spotify: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		c.tokens.Invalidate()
	}
	if resp.IsError() {
		return "", fmt.Errorf("spotify API returned status %d", resp.StatusCode())
	}
	return resp.String(), nil
}

// FollowedArtists returns the display names of every artist the user follows
func (c *Client) FollowedArtists(ctx context.Context) ([]string, error) {
	if c.opts.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	artists := make([]string, 0)
	path := "/me/following"
	query := map[string]string{"type": "artist", "limit": "50"}

	for path != "" {
		body, err := c.get(ctx, path, query)
		if err != nil {
			return nil, fmt.Errorf("fetching followed artists: %w", err)
		}
		for _, item := range gjson.Get(body, "artists.items").Array() {
			if name := item.Get("name").String(); name != "" {
				artists = append(artists, name)
			}
		}
		path = gjson.Get(body, "artists.next").String()
		query = nil
	}

	return artists, nil
}

// SearchArtist returns the Spotify page of the artist best matching name, or ""
// when nothing close enough is found. Results, including misses, are cached.
func (c *Client) SearchArtist(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", nil
	}
	if url, ok := c.searches.Get(key); ok {
		return url, nil
	}

	body, err := c.get(ctx, "/search", map[string]string{"q": name, "type": "artist", "limit": "5"})
	if err != nil {
		return "", fmt.Errorf("searching artist %q: %w", name, err)
	}

	url := ""
	for _, item := range gjson.Get(body, "artists.items").Array() {
		candidate := strings.ToLower(item.Get("name").String())
		if candidate == key || fuzzy.Ratio(candidate, key) > nameThreshold {
			url = item.Get("external_urls.spotify").String()
			break
		}
	}

	c.searches.Add(key, url)
	return url, nil
}
