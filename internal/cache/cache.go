package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/siddhixshah/News-Analysis/internal/domain"
)

// Package cache memoizes fetch results keyed by the query parameters for a
// bounded time-to-live, so repeated lookups skip the network entirely.

// Store holds fetch results by query key. Expiry is passive: a stale entry
// is simply reported as a miss at lookup time.
type Store interface {
	Close() error
	Get(key string) ([]domain.Article, bool, error)
	Put(key string, articles []domain.Article) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TTL time.Duration
}

const defaultTTL = 5 * time.Minute

// NewStore creates the configured cache backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "none", "disabled":
		return noopStore{}, nil
	case "", "memory":
		return newMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt cache requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported cache type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                               { return nil }
func (noopStore) Get(string) ([]domain.Article, bool, error) { return nil, false, nil }
func (noopStore) Put(string, []domain.Article) error         { return nil }
