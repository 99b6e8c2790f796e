// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package translate

import "testing"

func TestLayoutTransliterate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		dir   Direction
		want  string
	}{
		{"empty", "", LatinToCyrillic, ""},
		{"latin word to cyrillic", "ghbdtn", LatinToCyrillic, "привет"},
		{"cyrillic word to latin", "привет", CyrillicToLatin, "ghbdtn"},
		{"uppercase preserved", "Ghbdtn", LatinToCyrillic, "Привет"},
		{"unmapped runes pass through", "abc 123 €", LatinToCyrillic, "фис 123 €"},
		{"trims whitespace", "  shoes  ", LatinToCyrillic, "ырщуы"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayoutTransliterate(tt.input, tt.dir); got != tt.want {
				t.Errorf("LayoutTransliterate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Characters present in the layout table must survive a round trip.
func TestLayoutTransliterateRoundTrip(t *testing.T) {
	inputs := []string{"shoes", "Shoes", "qwerty[];'", "hello, world."}

	for _, input := range inputs {
		mapped := LayoutTransliterate(input, LatinToCyrillic)
		back := LayoutTransliterate(mapped, CyrillicToLatin)
		if back != input {
			t.Errorf("round trip of %q = %q (via %q)", input, back, mapped)
		}
	}
}

func TestLayoutTransliterateNeverEmptyForNonEmptyInput(t *testing.T) {
	// The mapped result of "." trims to nothing is impossible, but a string of
	// characters whose mapped forms are whitespace-free punctuation still must
	// not come back empty.
	inputs := []string{".", "/", " ё ", "z"}
	for _, input := range inputs {
		if got := LayoutTransliterate(input, CyrillicToLatin); got == "" {
			t.Errorf("LayoutTransliterate(%q) returned empty string", input)
		}
	}
}
