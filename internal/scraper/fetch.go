package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

const (
	UserAgent = "gigradar/1.0 (github.com/pfrederiksen/gigradar)"
	Timeout   = 30 * time.Second
)

// ErrStatus is wrapped by errors for non-2xx responses
var ErrStatus = errors.New("unexpected status code")

// FetchOptions tunes the Fetcher
type FetchOptions struct {
	Timeout         time.Duration
	UserAgent       string
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxElapsed      time.Duration
}

// Fetcher downloads pages, retrying transient failures
type Fetcher struct {
	client *resty.Client
	opts   FetchOptions
}

// NewFetcher creates a fetcher. Zero options fall back to package defaults.
func NewFetcher(opts FetchOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = time.Minute
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept-Language", "ro-RO,ro;q=0.9,en;q=0.8").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &Fetcher{client: client, opts: opts}
}

func (f *Fetcher) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.opts.InitialInterval
	b.MaxElapsedTime = f.opts.MaxElapsed
	return backoff.WithContext(backoff.WithMaxRetries(b, f.opts.MaxRetries), ctx)
}

// Fetch returns the body of url. Client errors (4xx) are not retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	op := func() error {
		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		code := resp.StatusCode()
		if code < 200 || code > 299 {
			err := fmt.Errorf("%w: %d", ErrStatus, code)
			if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		body = resp.Body()
		return nil
	}

	if err := backoff.Retry(op, f.backoff(ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// Document fetches url and parses it as HTML
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
