package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/pfrederiksen/gigradar/internal/digest"
)

const (
	DefaultResendURL = "https://api.resend.com"
	DefaultFrom      = "GigRadar <gigradar@resend.dev>"
	emailTimeout     = 30 * time.Second
)

// ErrMissingEmail is returned when the Resend key or recipient is absent
var ErrMissingEmail = errors.New("email channel requires RESEND_API_KEY and DIGEST_TO_EMAIL")

// EmailOptions configures the Resend channel
type EmailOptions struct {
	APIKey  string
	From    string
	To      string
	BaseURL string
}

// Email sends the digest through the Resend API
type Email struct {
	http *resty.Client
	from string
	to   string
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// NewEmail creates the Resend channel
func NewEmail(opts EmailOptions) (*Email, error) {
	if opts.APIKey == "" || opts.To == "" {
		return nil, ErrMissingEmail
	}
	if opts.From == "" {
		opts.From = DefaultFrom
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultResendURL
	}

	http := resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetTimeout(emailTimeout).
		SetAuthToken(opts.APIKey)

	return &Email{http: http, from: opts.From, to: opts.To}, nil
}

// Name implements Notifier
func (e *Email) Name() string {
	return "email"
}

// Notify sends one plain-text email with the Markdown digest
func (e *Email) Notify(ctx context.Context, d digest.Digest) error {
	resp, err := e.http.R().
		SetContext(ctx).
		SetBody(emailRequest{
			From:    e.from,
			To:      []string{e.to},
			Subject: d.Subject(),
			Text:    digest.Format(d),
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if resp.IsError() {
		msg := gjson.Get(resp.String(), "message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode(), msg)
	}
	return nil
}
