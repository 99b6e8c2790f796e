// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"context"
	"strings"
)

// Service builds Russian/English pairs for free-text catalog fields.
// The same service is used inline on category/product writes and by the
// startup backfill, so both paths behave identically.
type Service struct {
	provider Provider
}

// NewService creates a translation service backed by the given provider.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// BuildRuEn resolves both language variants for text.
//
// The script containing the source decides the direction: Cyrillic text is
// kept as ru and translated to en; anything else is kept as en and translated
// to ru. When the provider echoes the source back unchanged (case-insensitive
// comparison, a proxy for "translation failed or was a no-op") the
// keyboard-layout transliteration is substituted. For non-empty input both
// results are guaranteed non-empty; empty or whitespace input yields ("", "").
func (s *Service) BuildRuEn(ctx context.Context, text string) (ru, en string) {
	value := strings.TrimSpace(text)
	if value == "" {
		return "", ""
	}

	if ContainsCyrillic(value) {
		ru = value
		en = s.provider.Translate(ctx, value, "ru", "en")
		if strings.EqualFold(strings.TrimSpace(en), value) {
			en = LayoutTransliterate(value, CyrillicToLatin)
		}
		if en == "" {
			en = value
		}
		return ru, en
	}

	en = value
	ru = s.provider.Translate(ctx, value, "en", "ru")
	if ContainsLatin(value) && strings.EqualFold(strings.TrimSpace(ru), value) {
		ru = LayoutTransliterate(value, LatinToCyrillic)
	}
	if ru == "" {
		ru = value
	}
	return ru, en
}

// NeedsTranslation decides whether the ru/en variants of a field must be
// (re)computed. An empty source needs nothing; a missing variant needs work;
// both variants equal to the source is the stale marker left by the verbatim
// column seeding and also needs work. Anything else is considered resolved
// and must not be touched again.
func NeedsTranslation(source, ru, en string) bool {
	src := strings.TrimSpace(source)
	if src == "" {
		return false
	}

	ruVal := strings.TrimSpace(ru)
	enVal := strings.TrimSpace(en)
	if ruVal == "" || enVal == "" {
		return true
	}

	return ruVal == src && enVal == src
}
