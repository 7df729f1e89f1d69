package venue

import (
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercase", "CONTROL CLUB", "control club"},
		{"removes punctuation", "Hard Rock Cafe!", "hard rock cafe"},
		{"collapses whitespace", "Control   Club", "control club"},
		{"trims", "  Quantic \t", "quantic"},
		{"folds comma-below diacritics", "Control București", "control bucuresti"},
		{"folds cedilla diacritics", "Teatrul Naţional", "teatrul national"},
		{"drops symbols", "Form Space ★", "form space"},
		{"hyphen removed", "Control Club - Main", "control club main"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.raw); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizer_ResolvesAlias(t *testing.T) {
	n := NewNormalizer(DefaultAliases)

	for _, raw := range []string{"Control Club", "club control", "Control", "Control București", "CONTROL"} {
		if got := n.Normalize(raw); got != "control" {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, "control")
		}
	}
}

func TestNormalizer_AliasSymmetry(t *testing.T) {
	n := NewNormalizer(DefaultAliases)

	a := n.Normalize("Control Club")
	b := n.Normalize("club control")
	c := n.Normalize("Control")
	if a != b || b != c {
		t.Errorf("alias spellings disagree: %q %q %q", a, b, c)
	}
}

func TestNormalizer_UnknownPassesThrough(t *testing.T) {
	n := NewNormalizer(DefaultAliases)
	if got := n.Normalize("Some Unknown Venue!"); got != "some unknown venue" {
		t.Errorf("Normalize() = %q, want sanitized input", got)
	}
}

func TestNormalizer_TableIsSanitized(t *testing.T) {
	n := NewNormalizer(Aliases{
		"Grădina Eden": {"GRADINA EDEN BUCUREȘTI"},
	})
	if got := n.Normalize("gradina eden bucuresti"); got != "gradina eden" {
		t.Errorf("Normalize() = %q, want %q", got, "gradina eden")
	}
}

func TestNormalizer_Nil(t *testing.T) {
	var n *Normalizer
	if got := n.Normalize("Club Control"); got != "club control" {
		t.Errorf("nil Normalizer should only sanitize, got %q", got)
	}
}
