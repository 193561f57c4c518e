package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/siddhixshah/News-Analysis/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	resultBucket    = "results"
	cleanupInterval = 5 * time.Minute
)

// boltStore implements a Store backed by BoltDB so the short-lived cache
// survives process restarts within the TTL window.
type boltStore struct {
	db          *bolt.DB
	cleanupMu   sync.Mutex
	lastCleanup atomic.Int64
	ttl         time.Duration
}

type boltEntry struct {
	ExpiresAt int64            `json:"expires_at"`
	Articles  []domain.Article `json:"articles"`
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(resultBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{db: db, ttl: opts.TTL}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Get returns the cached result for key if present and not expired.
func (b *boltStore) Get(key string) ([]domain.Article, bool, error) {
	if b == nil || b.db == nil {
		return nil, false, nil
	}

	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return nil, false, err
	}

	var (
		articles []domain.Article
		found    bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resultBucket))
		if bucket == nil {
			return fmt.Errorf("result bucket missing")
		}

		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}

		entry, ok := decodeEntry(raw)
		if !ok || !time.Unix(entry.ExpiresAt, 0).After(time.Now()) {
			return bucket.Delete([]byte(key))
		}

		articles = entry.Articles
		found = true
		return nil
	})
	return articles, found, err
}

// Put stores the result for key with the configured TTL.
func (b *boltStore) Put(key string, articles []domain.Article) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	raw, err := json.Marshal(boltEntry{
		ExpiresAt: now.Add(b.ttl).Unix(),
		Articles:  articles,
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resultBucket))
		if bucket == nil {
			return fmt.Errorf("result bucket missing")
		}
		return bucket.Put([]byte(key), raw)
	})
}

// maybeCleanupExpired removes expired results on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resultBucket))
		if bucket == nil {
			return fmt.Errorf("result bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			entry, ok := decodeEntry(v)
			if !ok || !time.Unix(entry.ExpiresAt, 0).After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// decodeEntry decodes a stored cache entry; malformed values count as expired.
func decodeEntry(raw []byte) (boltEntry, bool) {
	var entry boltEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return boltEntry{}, false
	}
	if entry.ExpiresAt <= 0 {
		return boltEntry{}, false
	}
	return entry, true
}
