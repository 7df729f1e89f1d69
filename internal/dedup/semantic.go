package dedup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pfrederiksen/gigradar/internal/event"
	"github.com/pfrederiksen/gigradar/internal/logger"
)

// Oracle answers a natural-language prompt. The semantic stage asks it to
// partition a batch of events into duplicate groups.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrMalformedResponse is returned when the oracle's answer cannot be read as a grouping
var ErrMalformedResponse = errors.New("malformed duplicate grouping")

// Semantic removes residual duplicates judged by an Oracle
type Semantic struct {
	oracle Oracle
}

// NewSemantic creates the semantic stage. A nil oracle makes Dedup a no-op.
func NewSemantic(oracle Oracle) *Semantic {
	return &Semantic{oracle: oracle}
}

// Enabled reports whether an oracle is configured
func (s *Semantic) Enabled() bool {
	return s != nil && s.oracle != nil
}

// batchItem is the per-event record sent to the oracle
type batchItem struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	Venue  string `json:"venue"`
	Date   string `json:"date"`
	Source string `json:"source"`
}

const promptTemplate = `You deduplicate cultural event listings scraped from several Bucharest websites.
Each listing below has an "id". Find listings that describe the same real-world event.

Rules:
- Same artist + same date + same or similar venue means duplicate.
- Spelling variants, abbreviations or transliterations of the same artist still count.
- Venue names may differ in language, branding or city suffix.
- Only group listings when you are confident.

Listings:
%s

Respond with JSON only, in exactly this shape:
{"duplicates": [[id, id, ...], ...]}
Use an empty list when there are no duplicates.`

// Dedup returns events without the duplicates the oracle identified. Any oracle
// failure is logged and the input is returned unchanged.
func (s *Semantic) Dedup(ctx context.Context, events []event.Event) []event.Event {
	if !s.Enabled() || len(events) < 2 {
		return events
	}

	prompt, err := BuildPrompt(events)
	if err != nil {
		logger.Warn("Semantic dedup skipped", logger.Fields{"reason": err.Error()})
		return events
	}

	answer, err := s.oracle.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("Semantic dedup oracle failed", logger.Fields{"events": len(events), "error": err.Error()})
		return events
	}

	groups, err := ParseGroups(answer)
	if err != nil {
		logger.Warn("Semantic dedup response unusable", logger.Fields{"events": len(events), "error": err.Error()})
		return events
	}

	drop := DropSet(groups, len(events))
	if len(drop) == 0 {
		return events
	}

	out := make([]event.Event, 0, len(events)-len(drop))
	for i, evt := range events {
		if !drop[i] {
			out = append(out, evt)
		}
	}

	logger.Debug("Semantic dedup removed duplicates", logger.Fields{"removed": len(drop), "groups": len(groups)})
	return out
}

// BuildPrompt renders the oracle prompt for a batch of events
func BuildPrompt(events []event.Event) (string, error) {
	batch := make([]batchItem, len(events))
	for i, evt := range events {
		batch[i] = batchItem{
			ID:     i,
			Title:  evt.Title,
			Artist: evt.Artist,
			Venue:  evt.Venue,
			Date:   evt.Day(),
			Source: evt.Source,
		}
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding batch: %w", err)
	}
	return fmt.Sprintf(promptTemplate, data), nil
}

// ParseGroups reads {"duplicates": [[...], ...]} from an oracle answer. Markdown
// code fences and prose around the JSON object are tolerated.
func ParseGroups(answer string) ([][]int, error) {
	body := extractJSONObject(answer)
	if body == "" || !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: no JSON object", ErrMalformedResponse)
	}

	dups := gjson.Get(body, "duplicates")
	if !dups.Exists() || !dups.IsArray() {
		return nil, fmt.Errorf("%w: missing duplicates array", ErrMalformedResponse)
	}

	groups := make([][]int, 0)
	for _, g := range dups.Array() {
		if !g.IsArray() {
			return nil, fmt.Errorf("%w: group is not an array", ErrMalformedResponse)
		}
		group := make([]int, 0)
		for _, id := range g.Array() {
			if id.Type != gjson.Number || id.Num != float64(int(id.Num)) {
				return nil, fmt.Errorf("%w: non-integer id %s", ErrMalformedResponse, id.Raw)
			}
			group = append(group, int(id.Num))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// DropSet returns the indices to remove: in every group with more than one valid
// distinct index, all but the lowest. Out-of-range indices are ignored.
func DropSet(groups [][]int, n int) map[int]bool {
	drop := make(map[int]bool)
	for _, g := range groups {
		valid := make([]int, 0, len(g))
		seen := make(map[int]bool, len(g))
		for _, id := range g {
			if id < 0 || id >= n || seen[id] {
				continue
			}
			seen[id] = true
			valid = append(valid, id)
		}
		if len(valid) < 2 {
			continue
		}
		sort.Ints(valid)
		for _, id := range valid[1:] {
			drop[id] = true
		}
	}
	return drop
}

// extractJSONObject strips code fences and returns the first balanced {...}
// span that is valid JSON and carries a duplicates key. Braces in prose around
// the object are skipped.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end := balancedEnd(s, start); end > start {
			candidate := s[start : end+1]
			if gjson.Valid(candidate) && gjson.Get(candidate, "duplicates").Exists() {
				return candidate
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return ""
}

// balancedEnd returns the index of the brace closing the one at start, or -1.
// Braces inside JSON strings are ignored.
func balancedEnd(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
