package marketdata

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// cacheEntry pairs a fetched series with its fetch time for TTL checks.
type cacheEntry struct {
	candles   []Candle
	fetchedAt time.Time
}

// CachedProvider wraps a Provider with a bounded least-recently-used cache.
// The cache is an explicit object owned by the calling layer; capacity and
// TTL are fixed at construction. Expired entries are refetched on access.
type CachedProvider struct {
	upstream Provider
	cache    *lru.Cache[string, cacheEntry]
	ttl      time.Duration
	log      zerolog.Logger
}

// NewCachedProvider creates a caching provider. Capacity must be positive.
func NewCachedProvider(upstream Provider, capacity int, ttl time.Duration, log zerolog.Logger) (*CachedProvider, error) {
	cache, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		log:      log.With().Str("component", "marketdata_cache").Logger(),
	}, nil
}

// History returns the cached series when fresh, fetching from upstream
// otherwise. Failed fetches are never cached.
func (p *CachedProvider) History(ctx context.Context, symbol string, rng Range, interval Interval) ([]Candle, error) {
	key := fmt.Sprintf("%s|%s|%s", symbol, rng, interval)

	if entry, ok := p.cache.Get(key); ok {
		if time.Since(entry.fetchedAt) < p.ttl {
			p.log.Debug().Str("symbol", symbol).Msg("Cache hit")
			return entry.candles, nil
		}
		p.cache.Remove(key)
	}

	candles, err := p.upstream.History(ctx, symbol, rng, interval)
	if err != nil {
		return nil, err
	}

	p.cache.Add(key, cacheEntry{candles: candles, fetchedAt: time.Now()})
	return candles, nil
}

// Len returns the number of cached series, for diagnostics.
func (p *CachedProvider) Len() int {
	return p.cache.Len()
}
