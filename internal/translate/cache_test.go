// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"context"
	"testing"
	"time"
)

// countingProvider records how many times each text was translated.
type countingProvider struct {
	calls map[string]int
	fail  bool
}

func (p *countingProvider) Translate(_ context.Context, text, _, _ string) string {
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[text]++
	if p.fail {
		return text
	}
	return text + "-translated"
}

func TestCachedProviderAvoidsRepeatLookups(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, time.Minute)
	ctx := context.Background()

	first := p.Translate(ctx, "Обувь", "ru", "en")
	second := p.Translate(ctx, "Обувь", "ru", "en")

	if first != "Обувь-translated" || second != first {
		t.Fatalf("got %q / %q", first, second)
	}
	if inner.calls["Обувь"] != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls["Обувь"])
	}

	stats := p.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Items != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 item", stats)
	}
}

func TestCachedProviderKeysOnLanguagePair(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, time.Minute)
	ctx := context.Background()

	p.Translate(ctx, "Сумка", "ru", "en")
	p.Translate(ctx, "Сумка", "ru", "de")

	if inner.calls["Сумка"] != 2 {
		t.Errorf("inner called %d times, want 2 (distinct targets)", inner.calls["Сумка"])
	}
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	inner := &countingProvider{fail: true}
	p := NewCachedProvider(inner, time.Minute)
	ctx := context.Background()

	p.Translate(ctx, "Обувь", "ru", "en")
	p.Translate(ctx, "Обувь", "ru", "en")

	if inner.calls["Обувь"] != 2 {
		t.Errorf("inner called %d times, want 2 (failures are retried)", inner.calls["Обувь"])
	}
}

func TestCachedProviderExpiry(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, -time.Second)
	ctx := context.Background()

	p.Translate(ctx, "Обувь", "ru", "en")
	p.Translate(ctx, "Обувь", "ru", "en")

	if inner.calls["Обувь"] != 2 {
		t.Errorf("inner called %d times, want 2 (entries already expired)", inner.calls["Обувь"])
	}
}
