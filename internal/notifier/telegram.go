package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/pfrederiksen/gigradar/internal/digest"
)

const (
	DefaultTelegramURL = "https://api.telegram.org"
	telegramTimeout    = 10 * time.Second
	// MaxMessageLength is the Bot API limit for a single message
	MaxMessageLength = 4096
)

// ErrMissingTelegram is returned when the bot token or chat id is absent
var ErrMissingTelegram = errors.New("telegram channel requires TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")

// Telegram posts the digest to a chat through the Bot API
type Telegram struct {
	http     *resty.Client
	botToken string
	chatID   string
}

// NewTelegram creates the Telegram channel
func NewTelegram(botToken, chatID, baseURL string) (*Telegram, error) {
	if botToken == "" || chatID == "" {
		return nil, ErrMissingTelegram
	}
	if baseURL == "" {
		baseURL = DefaultTelegramURL
	}

	http := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(telegramTimeout)

	return &Telegram{http: http, botToken: botToken, chatID: chatID}, nil
}

// Name implements Notifier
func (t *Telegram) Name() string {
	return "telegram"
}

// Notify sends the digest, split into as many messages as the length limit requires
func (t *Telegram) Notify(ctx context.Context, d digest.Digest) error {
	text := d.Subject() + "\n\n" + digest.Format(d)
	for _, chunk := range splitMessage(text, MaxMessageLength) {
		if err := t.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (t *Telegram) send(ctx context.Context, text string) error {
	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id":                  t.chatID,
			"text":                     text,
			"disable_web_page_preview": true,
		}).
		Post("/bot" + t.botToken + "/sendMessage")
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode(), gjson.Get(body, "description").String())
	}
	if !gjson.Get(body, "ok").Bool() {
		return fmt.Errorf("telegram API error: %s", gjson.Get(body, "description").String())
	}
	return nil
}

// splitMessage breaks text at line boundaries so no chunk exceeds limit runes.
// A single line longer than limit is cut.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
			n -= limit
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return chunks
}
