package cache

import (
	"sync"
	"time"

	"github.com/siddhixshah/News-Analysis/internal/domain"
)

// memoryStore is the default in-process cache backend.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	articles []domain.Article
	storedAt time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     opts.TTL,
		now:     time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

// Get returns the cached articles for key when the entry is still within
// its TTL; expired entries are evicted on the way out.
func (m *memoryStore) Get(key string) ([]domain.Article, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(entry.storedAt) >= m.ttl {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.articles, true, nil
}

func (m *memoryStore) Put(key string, articles []domain.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{articles: articles, storedAt: m.now()}
	return nil
}
