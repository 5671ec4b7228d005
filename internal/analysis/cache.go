package analysis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"car-finder/internal/infrastructure/cache"
)

const cacheTTL = 7 * 24 * time.Hour

// CachedStrategy wraps a backend with a redis lookup keyed by listing url,
// so re-runs over the full table do not re-pay for listings already
// analyzed. Only successful analyses are cached.
type CachedStrategy struct {
	inner Strategy
	cache *cache.Redis
}

func WithCache(inner Strategy, c *cache.Redis) *CachedStrategy {
	return &CachedStrategy{inner: inner, cache: c}
}

func (s *CachedStrategy) Name() string {
	if s == nil || s.inner == nil {
		return ""
	}
	return s.inner.Name()
}

func (s *CachedStrategy) Analyze(ctx context.Context, view ListingView) (string, error) {
	key := s.cacheKey(view.Link)
	if text, ok := s.cache.Get(ctx, key); ok {
		return text, nil
	}

	text, err := s.inner.Analyze(ctx, view)
	if err != nil {
		return "", err
	}

	s.cache.Set(ctx, key, text, cacheTTL)
	return text, nil
}

func (s *CachedStrategy) cacheKey(link string) string {
	sum := sha1.Sum([]byte(link))
	return "analysis:" + s.Name() + ":" + hex.EncodeToString(sum[:])
}
