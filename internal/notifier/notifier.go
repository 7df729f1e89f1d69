package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/gigradar/internal/config"
	"github.com/pfrederiksen/gigradar/internal/digest"
	"github.com/pfrederiksen/gigradar/internal/logger"
)

// Notifier defines the interface for delivering a digest
type Notifier interface {
	// Name identifies the channel in logs and errors
	Name() string
	// Notify delivers the digest
	Notify(ctx context.Context, d digest.Digest) error
}

// Multi fans a digest out to several channels. Every channel is attempted;
// failures are joined into one error.
type Multi []Notifier

// Name implements Notifier
func (m Multi) Name() string {
	return "multi"
}

// Notify implements Notifier
func (m Multi) Notify(ctx context.Context, d digest.Digest) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, d); err != nil {
			logger.Error("Notification failed", logger.Fields{"channel": n.Name()}, err)
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			continue
		}
		logger.Info("Digest delivered", logger.Fields{"channel": n.Name(), "events": d.Total()})
	}
	return errors.Join(errs...)
}

// FromConfig builds the channels listed in cfg.Channels. The file channel
// defaults to <dataDir>/digests; dryRun replaces every channel with a
// DryRun writing to out.
func FromConfig(cfg config.NotifyConfig, dataDir string, ics bool, dryRun bool, out io.Writer) (Multi, error) {
	if out == nil {
		out = os.Stdout
	}
	if dryRun {
		return Multi{NewDryRun(out)}, nil
	}

	var m Multi
	for _, ch := range cfg.Channels {
		switch ch {
		case config.ChannelDryRun:
			m = append(m, NewDryRun(out))
		case config.ChannelFile:
			dir := cfg.File.Dir
			if dir == "" {
				dir = filepath.Join(dataDir, "digests")
			}
			f, err := NewFile(dir, ics)
			if err != nil {
				return nil, err
			}
			m = append(m, f)
		case config.ChannelEmail:
			e, err := NewEmail(EmailOptions{
				APIKey:  cfg.Email.APIKey,
				From:    cfg.Email.From,
				To:      cfg.Email.To,
				BaseURL: cfg.Email.BaseURL,
			})
			if err != nil {
				return nil, err
			}
			m = append(m, e)
		case config.ChannelTelegram:
			t, err := NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.BaseURL)
			if err != nil {
				return nil, err
			}
			m = append(m, t)
		case config.ChannelTwitter:
			t, err := NewTwitter(TwitterCredentials{
				APIKey:       cfg.Twitter.APIKey,
				APISecret:    cfg.Twitter.APISecret,
				AccessToken:  cfg.Twitter.AccessToken,
				AccessSecret: cfg.Twitter.AccessSecret,
			}, cfg.Twitter.MaxPosts)
			if err != nil {
				return nil, err
			}
			m = append(m, t)
		default:
			return nil, fmt.Errorf("invalid notify channel: %s", ch)
		}
	}
	return m, nil
}
