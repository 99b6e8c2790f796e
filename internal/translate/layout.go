// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package translate

import "strings"

// Direction selects which way a keyboard-layout transliteration maps.
type Direction int

const (
	// LatinToCyrillic maps text typed on a QWERTY layout to ЙЦУКЕН.
	LatinToCyrillic Direction = iota
	// CyrillicToLatin maps text typed on a ЙЦУКЕН layout to QWERTY.
	CyrillicToLatin
)

// Parallel layout strings: the same physical keys on the two standard layouts,
// row by row. The maps are built symmetrically for both cases.
const (
	latinLayout    = "`qwertyuiop[]asdfghjkl;'zxcvbnm,./"
	cyrillicLayout = "ёйцукенгшщзхъфывапролджэячсмитьбю."
)

var (
	latinToCyrillic = buildLayoutMap(latinLayout, cyrillicLayout)
	cyrillicToLatin = buildLayoutMap(cyrillicLayout, latinLayout)
)

// buildLayoutMap pairs the runes of two parallel layout strings, lowercase
// first and uppercase on top, so case-less keys (punctuation) end up mapped to
// the uppercase counterpart exactly as str.maketrans would produce.
func buildLayoutMap(from, to string) map[rune]rune {
	m := make(map[rune]rune, 2*len(from))
	addPairs(m, from, to)
	addPairs(m, strings.ToUpper(from), strings.ToUpper(to))
	return m
}

func addPairs(m map[rune]rune, from, to string) {
	src := []rune(from)
	dst := []rune(to)
	for i := range src {
		m[src[i]] = dst[i]
	}
}

// LayoutTransliterate maps text typed on one keyboard layout to the other
// layout. Runes outside the layout table pass through unchanged. The input is
// trimmed before mapping; if the mapped result trims down to nothing the
// original input is returned so that non-empty input never yields an empty
// string.
func LayoutTransliterate(text string, dir Direction) string {
	value := strings.TrimSpace(text)
	if value == "" {
		return value
	}

	table := latinToCyrillic
	if dir == CyrillicToLatin {
		table = cyrillicToLatin
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if mapped, ok := table[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}

	mapped := strings.TrimSpace(b.String())
	if mapped == "" {
		return value
	}
	return mapped
}
