// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

// Package translate derives Russian/English text pairs for catalog content.
// It combines an external translation provider with a deterministic
// keyboard-layout fallback so that a pair can always be produced, even when
// the provider is unreachable.
package translate

import "unicode"

// ContainsCyrillic reports whether s contains at least one Cyrillic rune.
func ContainsCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// ContainsLatin reports whether s contains at least one basic Latin letter.
func ContainsLatin(s string) bool {
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return true
		}
	}
	return false
}
