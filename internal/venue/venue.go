// Package venue canonicalizes free-text venue names.
//
// Venue sites and ticketing platforms name the same hall differently: branding
// suffixes ("Club"), the city appended ("București"), dropped diacritics. A
// Normalizer sanitizes the raw string and resolves it through an alias table
// so that every spelling of one physical venue maps to a single canonical id.
package venue

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Aliases maps a canonical venue id to its known alternate spellings
type Aliases map[string][]string

// Normalizer resolves venue names through a static alias table
type Normalizer struct {
	lookup map[string]string // sanitized variant → canonical id
}

// NewNormalizer builds a Normalizer from an alias table. Variants and canonical
// ids are sanitized before indexing, so the table may use any casing or accents.
func NewNormalizer(aliases Aliases) *Normalizer {
	n := &Normalizer{lookup: make(map[string]string)}
	for canonical, variants := range aliases {
		id := Sanitize(canonical)
		if id == "" {
			continue
		}
		n.lookup[id] = id
		for _, v := range variants {
			if s := Sanitize(v); s != "" {
				n.lookup[s] = id
			}
		}
	}
	return n
}

// Normalize returns the canonical id for raw, or its sanitized form when the
// venue is not in the alias table.
func (n *Normalizer) Normalize(raw string) string {
	s := Sanitize(raw)
	if n == nil {
		return s
	}
	if id, ok := n.lookup[s]; ok {
		return id
	}
	return s
}

// Size returns the number of indexed spellings
func (n *Normalizer) Size() int {
	return len(n.lookup)
}

// Sanitize lowercases, folds diacritics, drops punctuation and symbols, and
// collapses whitespace runs to a single space.
func Sanitize(raw string) string {
	folded, _, err := transform.String(foldDiacritics(), strings.ToLower(raw))
	if err != nil {
		folded = strings.ToLower(raw)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		if unicode.IsSpace(r) {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// foldDiacritics strips combining marks: "ș" → "s", "ă" → "a".
// A transformer is stateful, so one is built per call.
func foldDiacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
