// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CachedProvider wraps another Provider with a thread-safe in-memory TTL
// cache. The free translation endpoint throttles aggressively, so repeated
// lookups of the same text (backfill re-runs, product updates that keep a
// field unchanged) must not hit the network twice.
type CachedProvider struct {
	inner   Provider
	data    sync.Map
	ttl     time.Duration
	stopCh  chan struct{}
	stopped atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// CacheStats holds cache hit counters.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Items  int   `json:"items"`
}

// NewCachedProvider wraps inner with a cache of the given TTL.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
}

// Translate returns a cached translation when available and delegates to the
// wrapped provider otherwise. Failed translations (provider returned the
// input unchanged) are not cached, so transient outages heal on retry.
func (p *CachedProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	key := sourceLang + "\x00" + targetLang + "\x00" + text

	if val, ok := p.data.Load(key); ok {
		entry := val.(*cacheEntry)
		if time.Now().Before(entry.expiresAt) {
			p.hits.Add(1)
			return entry.value
		}
		p.data.Delete(key)
	}
	p.misses.Add(1)

	translated := p.inner.Translate(ctx, text, sourceLang, targetLang)
	if translated != text {
		p.data.Store(key, &cacheEntry{
			value:     translated,
			expiresAt: time.Now().Add(p.ttl),
		})
	}
	return translated
}

// StartCleanup starts a background goroutine that periodically removes
// expired entries. Stop terminates it.
func (p *CachedProvider) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.removeExpired()
			case <-p.stopCh:
				return
			}
		}
	}()
}

// Stop stops the cleanup goroutine.
func (p *CachedProvider) Stop() {
	if p.stopped.CompareAndSwap(false, true) {
		close(p.stopCh)
	}
}

func (p *CachedProvider) removeExpired() {
	now := time.Now()
	p.data.Range(func(key, value any) bool {
		if now.After(value.(*cacheEntry).expiresAt) {
			p.data.Delete(key)
		}
		return true
	})
}

// Stats returns current cache counters.
func (p *CachedProvider) Stats() CacheStats {
	items := 0
	p.data.Range(func(_, _ any) bool {
		items++
		return true
	})
	return CacheStats{
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
		Items:  items,
	}
}
