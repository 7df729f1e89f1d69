// Package gemini is a minimal client for the Gemini generateContent API.
//
// Client satisfies both the duplicate-grouping oracle used by the semantic
// dedup stage and the description writer used by enrichment: each takes a
// prompt and returns the model's text answer.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash-lite"
	DefaultTimeout = 60 * time.Second
)

var (
	// ErrNoAPIKey is returned by New when no API key is configured
	ErrNoAPIKey = errors.New("gemini API key not configured")
	// ErrEmptyResponse is returned when the model produced no text
	ErrEmptyResponse = errors.New("gemini returned no text")
)

// Options configures a Client
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
}

// Client calls generateContent for a single model
type Client struct {
	http        *resty.Client
	apiKey      string
	model       string
	temperature float64
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// New creates a client. It returns ErrNoAPIKey when opts.APIKey is empty.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	http := resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:        http,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
	}, nil
}

// Model returns the model name used for requests
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user turn and returns the first candidate's text
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: c.temperature},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(body).
		Post("/models/" + c.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("calling gemini: %w", err)
	}

	raw := resp.String()
	if resp.IsError() {
		msg := gjson.Get(raw, "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode(), msg)
	}

	if reason := gjson.Get(raw, "promptFeedback.blockReason").String(); reason != "" {
		return "", fmt.Errorf("gemini blocked prompt: %s", reason)
	}

	var sb strings.Builder
	for _, p := range gjson.Get(raw, "candidates.0.content.parts").Array() {
		sb.WriteString(p.Get("text").String())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
