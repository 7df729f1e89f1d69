package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/gigradar/internal/digest"
	"github.com/pfrederiksen/gigradar/internal/event"
)

const (
	// DefaultMaxPosts caps the tweets posted per digest
	DefaultMaxPosts = 5
	tweetLimit      = 280
)

// ErrMissingTwitter is returned when any OAuth credential is absent
var ErrMissingTwitter = errors.New("missing required Twitter credentials")

// TwitterCredentials are the OAuth1 user-context keys
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// Twitter posts one tweet per new event, up to a limit
type Twitter struct {
	statuses statusUpdater
	maxPosts int
	delay    time.Duration
}

// NewTwitter creates the Twitter channel
func NewTwitter(creds TwitterCredentials, maxPosts int) (*Twitter, error) {
	if creds.APIKey == "" || creds.APISecret == "" || creds.AccessToken == "" || creds.AccessSecret == "" {
		return nil, ErrMissingTwitter
	}
	if maxPosts <= 0 {
		maxPosts = DefaultMaxPosts
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &Twitter{statuses: client.Statuses, maxPosts: maxPosts, delay: 2 * time.Second}, nil
}

// Name implements Notifier
func (n *Twitter) Name() string {
	return "twitter"
}

// Notify posts tweets for the first maxPosts events in digest order
func (n *Twitter) Notify(ctx context.Context, d digest.Digest) error {
	events := d.All()
	if len(events) > n.maxPosts {
		events = events[:n.maxPosts]
	}

	for i, evt := range events {
		if _, _, err := n.statuses.Update(formatTweet(evt), nil); err != nil {
			return fmt.Errorf("failed to post tweet for event %s: %w", event.GenerateID(evt), err)
		}

		// Rate limiting: wait between tweets
		if i < len(events)-1 && n.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.delay):
			}
		}
	}
	return nil
}

var categoryEmoji = map[event.Category]string{
	event.CategoryMusic:   "🎵",
	event.CategoryTheatre: "🎭",
	event.CategoryCulture: "🎨",
}

var categoryTags = map[event.Category]string{
	event.CategoryMusic:   "#concert",
	event.CategoryTheatre: "#teatru",
	event.CategoryCulture: "#cultura",
}

// formatTweet formats an event as a tweet
func formatTweet(evt event.Event) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", categoryEmoji[evt.Category], evt.Title))
	b.WriteString(fmt.Sprintf("📍 %s\n", evt.Venue))
	b.WriteString(fmt.Sprintf("📅 %s\n", digest.FormatDate(evt.Date)))
	if evt.Price != "" {
		b.WriteString(fmt.Sprintf("💰 %s\n", evt.Price))
	}
	b.WriteString("\n" + evt.URL + "\n")
	b.WriteString("\n#Bucuresti " + categoryTags[evt.Category])

	tweet := b.String()
	// Twitter limit is 280 characters
	if tweetLength(tweet) > tweetLimit {
		r := []rune(tweet)
		tweet = string(r[:tweetLimit-3]) + "..."
	}
	return tweet
}

func tweetLength(s string) int {
	return utf8.RuneCountInString(s)
}
