package dedup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/gigradar/internal/event"
)

// fakeOracle returns a canned answer and records the prompt it was given
type fakeOracle struct {
	answer string
	err    error
	prompt string
	calls  int
}

func (f *fakeOracle) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.answer, f.err
}

func threeEvents() []event.Event {
	return []event.Event{
		makeEvent("The Cure", "Arenele Romane", march(15), "iabilet"),
		makeEvent("Cure", "Arenele Romane Bucuresti", march(15), "eventbook"),
		makeEvent("Depeche Mode", "Arena Nationala", march(20), "iabilet"),
	}
}

func TestSemantic_NoOracleIsIdentity(t *testing.T) {
	events := threeEvents()
	got := NewSemantic(nil).Dedup(context.Background(), events)
	assert.Equal(t, events, got)
}

func TestSemantic_FewerThanTwoEvents(t *testing.T) {
	oracle := &fakeOracle{answer: `{"duplicates": [[0, 1]]}`}
	s := NewSemantic(oracle)

	assert.Empty(t, s.Dedup(context.Background(), nil))
	single := threeEvents()[:1]
	assert.Equal(t, single, s.Dedup(context.Background(), single))
	assert.Zero(t, oracle.calls, "oracle should not be consulted")
}

func TestSemantic_DropsLaterGroupMembers(t *testing.T) {
	oracle := &fakeOracle{answer: `{"duplicates": [[0, 1]]}`}
	got := NewSemantic(oracle).Dedup(context.Background(), threeEvents())

	require.Len(t, got, 2)
	assert.Equal(t, "The Cure", got[0].Artist)
	assert.Equal(t, "Depeche Mode", got[1].Artist)
}

func TestSemantic_Responses(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		err         error
		wantArtists []string
	}{
		{
			name:        "no duplicates",
			answer:      `{"duplicates": []}`,
			wantArtists: []string{"The Cure", "Cure", "Depeche Mode"},
		},
		{
			name:        "markdown fenced",
			answer:      "```json\n{\"duplicates\": [[0, 1]]}\n```",
			wantArtists: []string{"The Cure", "Depeche Mode"},
		},
		{
			name:        "prose around the object",
			answer:      "Here is the grouping:\n{\"duplicates\": [[1, 0]]}\nDone.",
			wantArtists: []string{"The Cure", "Depeche Mode"},
		},
		{
			name:        "trailing note with braces",
			answer:      "{\"duplicates\": [[0, 1]]}\nNote: ids use {id} form",
			wantArtists: []string{"The Cure", "Depeche Mode"},
		},
		{
			name:        "leading prose with braces",
			answer:      "Schema is {duplicates}. Answer:\n{\"duplicates\": [[0, 1]]}",
			wantArtists: []string{"The Cure", "Depeche Mode"},
		},
		{
			name:        "group listed out of order keeps lowest index",
			answer:      `{"duplicates": [[2, 0]]}`,
			wantArtists: []string{"The Cure", "Cure"},
		},
		{
			name:        "out of range ids ignored",
			answer:      `{"duplicates": [[1, 7], [-1, 2]]}`,
			wantArtists: []string{"The Cure", "Cure", "Depeche Mode"},
		},
		{
			name:        "oracle error returns input",
			err:         errors.New("API error"),
			wantArtists: []string{"The Cure", "Cure", "Depeche Mode"},
		},
		{
			name:        "not JSON returns input",
			answer:      "I could not decide.",
			wantArtists: []string{"The Cure", "Cure", "Depeche Mode"},
		},
		{
			name:        "wrong schema returns input",
			answer:      `{"groups": [[0, 1]]}`,
			wantArtists: []string{"The Cure", "Cure", "Depeche Mode"},
		},
		{
			name:        "string ids return input",
			answer:      `{"duplicates": [["0", "1"]]}`,
			wantArtists: []string{"The Cure", "Cure", "Depeche Mode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &fakeOracle{answer: tt.answer, err: tt.err}
			got := NewSemantic(oracle).Dedup(context.Background(), threeEvents())

			artists := make([]string, len(got))
			for i, e := range got {
				artists[i] = e.Artist
			}
			assert.Equal(t, tt.wantArtists, artists)
		})
	}
}

func TestSemantic_FailureIsExactIdentity(t *testing.T) {
	events := threeEvents()
	got := NewSemantic(&fakeOracle{err: context.DeadlineExceeded}).Dedup(context.Background(), events)
	require.Len(t, got, len(events))
	assert.Same(t, &events[0], &got[0], "input slice should be returned as is")
}

func TestSemantic_NeverAltersSurvivors(t *testing.T) {
	events := threeEvents()
	got := NewSemantic(&fakeOracle{answer: `{"duplicates": [[0, 1, 2]]}`}).Dedup(context.Background(), events)
	require.Len(t, got, 1)
	assert.Equal(t, events[0], got[0])
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(threeEvents())
	require.NoError(t, err)

	for _, want := range []string{`"id": 2`, `"artist": "Cure"`, `"date": "2026-03-15"`, `"source": "eventbook"`, `{"duplicates": [[id, id, ...], ...]}`} {
		assert.True(t, strings.Contains(prompt, want), "prompt missing %q", want)
	}
}

func TestParseGroups(t *testing.T) {
	groups, err := ParseGroups(`{"duplicates": [[0, 3], [1, 2, 4]]}`)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 3}, {1, 2, 4}}, groups)

	_, err = ParseGroups(`{"duplicates": [[0.5, 1]]}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseGroups(`{"duplicates": [0, 1]}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"plain", `{"duplicates": []}`, `{"duplicates": []}`},
		{"trailing braces", "{\"duplicates\": [[0,1]]}\nsee {id}", `{"duplicates": [[0,1]]}`},
		{"brace inside string", `{"duplicates": [], "note": "a } b"}`, `{"duplicates": [], "note": "a } b"}`},
		{"nested object", `x {"meta": {"n": 1}, "duplicates": []} y`, `{"meta": {"n": 1}, "duplicates": []}`},
		{"unbalanced", `{"duplicates": [`, ""},
		{"no object", "nothing here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.answer))
		})
	}
}

func TestDropSet(t *testing.T) {
	drop := DropSet([][]int{{3, 1}, {1, 1}, {5}, {0, 9}}, 6)
	assert.Equal(t, map[int]bool{3: true}, drop)
}
