package notifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/gigradar/internal/calendar"
	"github.com/pfrederiksen/gigradar/internal/digest"
)

// File writes each digest as digest-YYYY-MM-DD.md, plus a matching .ics
// calendar when enabled
type File struct {
	dir string
	ics bool
}

// NewFile creates the output directory if needed
func NewFile(dir string, ics bool) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating digest directory: %w", err)
	}
	return &File{dir: dir, ics: ics}, nil
}

// Name implements Notifier
func (f *File) Name() string {
	return "file"
}

// Paths returns the Markdown and calendar paths used for a digest
func (f *File) Paths(d digest.Digest) (markdown, ics string) {
	base := filepath.Join(f.dir, "digest-"+d.GeneratedAt.Format("2006-01-02"))
	return base + ".md", base + ".ics"
}

// Notify writes the digest files
func (f *File) Notify(_ context.Context, d digest.Digest) error {
	mdPath, icsPath := f.Paths(d)

	body := fmt.Sprintf("# %s\n\n%s", d.Subject(), digest.Format(d))
	if err := os.WriteFile(mdPath, []byte(body), 0644); err != nil {
		return fmt.Errorf("writing digest: %w", err)
	}

	if !f.ics || d.Total() == 0 {
		return nil
	}
	cal := calendar.GenerateICS(d.All(), d.Title, d.GeneratedAt)
	if err := os.WriteFile(icsPath, []byte(cal), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}
