package cache

import (
	"context"

	"github.com/siddhixshah/News-Analysis/internal/domain"
	"github.com/siddhixshah/News-Analysis/internal/logger"
	"github.com/siddhixshah/News-Analysis/pkg/gnews"
	"golang.org/x/sync/singleflight"
)

// FetchFunc is the underlying fetch the cache wraps.
type FetchFunc func(ctx context.Context, q gnews.Query) ([]domain.Article, error)

// CachedFetcher memoizes fetch results by query key. Racing calls for the
// same key are collapsed into a single underlying fetch.
type CachedFetcher struct {
	fetch FetchFunc
	store Store
	group singleflight.Group
}

// NewCachedFetcher wraps fetch with the given store (or a fresh in-memory
// store with the default TTL when nil).
func NewCachedFetcher(fetch FetchFunc, store Store) *CachedFetcher {
	if store == nil {
		store = newMemoryStore(normalizeOptions(Options{}))
	}
	return &CachedFetcher{fetch: fetch, store: store}
}

// Fetch is the sole entry point of the pipeline: it returns the cached result
// for an identical query within the TTL window, invoking the underlying
// fetcher otherwise. Store failures degrade to an uncached fetch.
func (c *CachedFetcher) Fetch(ctx context.Context, q gnews.Query) ([]domain.Article, error) {
	key := q.Key()

	if articles, ok := c.lookup(key); ok {
		return articles, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// a racer may have populated the store while we waited for the flight
		if articles, ok := c.lookup(key); ok {
			return articles, nil
		}

		articles, err := c.fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(key, articles); err != nil {
			logger.WarnObj("cache write failed", "cache_error", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
		}
		return articles, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.DebugObj("fetch shared across callers", "cache_key", key)
	}
	return v.([]domain.Article), nil
}

func (c *CachedFetcher) lookup(key string) ([]domain.Article, bool) {
	articles, ok, err := c.store.Get(key)
	if err != nil {
		logger.WarnObj("cache read failed", "cache_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	return articles, ok
}
