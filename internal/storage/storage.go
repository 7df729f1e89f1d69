package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// SnapshotFile is the name of the snapshot inside the data directory
const SnapshotFile = "events.json"

// Storage handles persistence of event snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dir}, nil
}

// ExpandHome replaces a leading ~/ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns the data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the snapshot file path
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, SnapshotFile)
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *Storage) Load() (*event.Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	for _, c := range event.Categories {
		if snapshot.Events(c) == nil {
			snapshot.SetEvents(c, make([]event.Event, 0))
		}
	}
	return &snapshot, nil
}

// Save writes the snapshot, stamping it with now. The file is replaced
// atomically so an interrupted run never leaves a truncated snapshot.
func (s *Storage) Save(snapshot *event.Snapshot, now time.Time) error {
	snapshot.ScrapedAt = now.UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dataDir, SnapshotFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// FindByID returns the stored event whose GenerateID matches id
func (s *Storage) FindByID(id string) (event.Event, error) {
	snapshot, err := s.Load()
	if err != nil {
		return event.Event{}, fmt.Errorf("loading snapshot: %w", err)
	}
	for _, e := range snapshot.All() {
		if event.GenerateID(e) == id {
			return e, nil
		}
	}
	return event.Event{}, fmt.Errorf("event not found: %s", id)
}
