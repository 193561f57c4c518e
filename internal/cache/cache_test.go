package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/siddhixshah/News-Analysis/internal/domain"
	"github.com/siddhixshah/News-Analysis/pkg/gnews"
)

func sampleQuery() gnews.Query {
	return gnews.Query{
		Text:     `"PNB" OR "Punjab National Bank"`,
		From:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC),
		MaxPages: 3,
		PageSize: 50,
	}
}

func sampleArticles(n int) []domain.Article {
	out := make([]domain.Article, n)
	for i := range out {
		out[i] = domain.Article{Title: "headline", Source: "Example Wire"}
	}
	return out
}

// countingFetch records invocations and returns preset articles or an error.
type countingFetch struct {
	calls    int
	articles []domain.Article
	err      error
}

func (c *countingFetch) fetch(context.Context, gnews.Query) ([]domain.Article, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.articles, nil
}

func TestMemoryStoreExpiresEntriesPassively(t *testing.T) {
	store := newMemoryStore(Options{TTL: 5 * time.Minute})
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Put("k", sampleArticles(2)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	now = now.Add(4 * time.Minute)
	articles, ok, err := store.Get("k")
	if err != nil || !ok {
		t.Fatalf("expected fresh hit, ok=%v err=%v", ok, err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 cached articles, got %d", len(articles))
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Get("k"); ok {
		t.Fatalf("expected entry to expire after TTL")
	}
}

func TestCachedFetcherAvoidsRepeatIO(t *testing.T) {
	fetch := &countingFetch{articles: sampleArticles(3)}
	cached := NewCachedFetcher(fetch.fetch, newMemoryStore(Options{TTL: time.Minute}))

	q := sampleQuery()
	first, err := cached.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	second, err := cached.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}

	if fetch.calls != 1 {
		t.Fatalf("expected a single underlying fetch, got %d", fetch.calls)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected identical results, got %d and %d", len(first), len(second))
	}
}

func TestCachedFetcherRefetchesAfterExpiry(t *testing.T) {
	store := newMemoryStore(Options{TTL: 5 * time.Minute})
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	fetch := &countingFetch{articles: sampleArticles(1)}
	cached := NewCachedFetcher(fetch.fetch, store)

	if _, err := cached.Fetch(context.Background(), sampleQuery()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	now = now.Add(6 * time.Minute)
	if _, err := cached.Fetch(context.Background(), sampleQuery()); err != nil {
		t.Fatalf("Fetch after expiry: %v", err)
	}

	if fetch.calls != 2 {
		t.Fatalf("expected a fresh fetch after TTL, got %d calls", fetch.calls)
	}
}

func TestCachedFetcherDoesNotCacheErrors(t *testing.T) {
	fetch := &countingFetch{err: errors.New("credential missing")}
	cached := NewCachedFetcher(fetch.fetch, newMemoryStore(Options{TTL: time.Minute}))

	if _, err := cached.Fetch(context.Background(), sampleQuery()); err == nil {
		t.Fatalf("expected error from underlying fetch")
	}

	fetch.err = nil
	fetch.articles = sampleArticles(1)
	articles, err := cached.Fetch(context.Background(), sampleQuery())
	if err != nil {
		t.Fatalf("Fetch after recovery: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if fetch.calls != 2 {
		t.Fatalf("errors must not be cached, got %d calls", fetch.calls)
	}
}

func TestCachedFetcherSharesDistinctKeys(t *testing.T) {
	fetch := &countingFetch{articles: sampleArticles(1)}
	cached := NewCachedFetcher(fetch.fetch, newMemoryStore(Options{TTL: time.Minute}))

	a := sampleQuery()
	b := sampleQuery()
	b.PageSize = 20

	if _, err := cached.Fetch(context.Background(), a); err != nil {
		t.Fatalf("Fetch a: %v", err)
	}
	if _, err := cached.Fetch(context.Background(), b); err != nil {
		t.Fatalf("Fetch b: %v", err)
	}
	if fetch.calls != 2 {
		t.Fatalf("distinct keys must not share entries, got %d calls", fetch.calls)
	}
}

func TestNewStoreSupportsDisabledCache(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Put("x", sampleArticles(1)); err != nil {
		t.Fatalf("noop store Put: %v", err)
	}
	if _, ok, _ := store.Get("x"); ok {
		t.Fatalf("noop store must always miss")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported cache type")
	}
}
