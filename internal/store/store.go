// Package store snapshots catalog data to disk so a restart renders
// instantly while the first refresh is still in flight.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"flicker/internal/domain"
)

// Slot names for the independently-replaced catalog lists.
const (
	SlotAll      = "all"
	SlotTrending = "trending"
	SlotPopular  = "popular"
	SlotNew      = "new"
)

var (
	bucketCatalog    = []byte("catalog")
	bucketCategories = []byte("categories")
	bucketUserData   = []byte("userdata")
)

const (
	keyCategories = "categories"
	keyHistory    = "history"
)

// SnapshotStore persists catalog slots and authenticated-only caches in
// BoltDB, keyed per backend URL so switching servers never mixes data.
type SnapshotStore struct {
	db *bolt.DB
	mu sync.RWMutex

	// In-memory copy for hot-path reads
	cache map[string][]byte
}

// NewSnapshotStore opens (or creates) the snapshot database under baseDir.
// An empty baseDir yields a memory-only store.
func NewSnapshotStore(baseDir, serverURL string) (*SnapshotStore, error) {
	if baseDir == "" {
		return &SnapshotStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "flicker.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketCatalog, bucketCategories, bucketUserData} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSlot replaces one catalog slot wholesale.
func (s *SnapshotStore) SaveSlot(slot string, items []domain.CatalogItem) error {
	return s.put(bucketCatalog, slot, items)
}

// Slot returns one catalog slot; ok is false when never saved.
func (s *SnapshotStore) Slot(slot string) ([]domain.CatalogItem, bool) {
	var items []domain.CatalogItem
	ok := s.get(bucketCatalog, slot, &items)
	return items, ok
}

// SaveCategories replaces the cached category list.
func (s *SnapshotStore) SaveCategories(categories []domain.Category) error {
	return s.put(bucketCategories, keyCategories, categories)
}

// Categories returns the cached category list.
func (s *SnapshotStore) Categories() ([]domain.Category, bool) {
	var categories []domain.Category
	ok := s.get(bucketCategories, keyCategories, &categories)
	return categories, ok
}

// SaveHistory caches the authenticated user's watch history.
func (s *SnapshotStore) SaveHistory(entries []domain.WatchHistoryEntry) error {
	return s.put(bucketUserData, keyHistory, entries)
}

// History returns the cached watch history.
func (s *SnapshotStore) History() ([]domain.WatchHistoryEntry, bool) {
	var entries []domain.WatchHistoryEntry
	ok := s.get(bucketUserData, keyHistory, &entries)
	return entries, ok
}

// ClearUserData drops authenticated-only caches on logout. Catalog slots
// are public data and survive.
func (s *SnapshotStore) ClearUserData() error {
	s.mu.Lock()
	for key := range s.cache {
		if strings.HasPrefix(key, string(bucketUserData)+":") {
			delete(s.cache, key)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketUserData); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketUserData)
		return err
	})
}

// === Generic helpers ===

func (s *SnapshotStore) put(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *SnapshotStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}
