// ABOUTME: Charm KV embedding cache for cloud-synced vectors
// ABOUTME: Shares cached embeddings between deployments through the user's charm account
package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/charm/kv"
)

// EmbeddingPrefix namespaces cache keys in the KV store
const EmbeddingPrefix = "embedding:"

// DefaultSyncDelay coalesces the writes of one ranking pass into a single sync
const DefaultSyncDelay = 500 * time.Millisecond

// CharmConfig holds charm client configuration
type CharmConfig struct {
	Host      string
	DBName    string
	AutoSync  bool
	SyncDelay time.Duration
}

// kvStore is the subset of *kv.KV the cache uses
type kvStore interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Sync() error
	Close() error
}

// CharmCache stores vectors in Charm KV
type CharmCache struct {
	kv     kvStore
	config *CharmConfig
	mu     sync.Mutex
	closed bool

	syncMu    sync.Mutex
	syncTimer *time.Timer
}

type charmEntry struct {
	Vector []float64 `json:"vector"`
}

// OpenCharm opens the KV database named in cfg
func OpenCharm(cfg *CharmConfig) (*CharmCache, error) {
	// Set CHARM_HOST before opening KV
	if cfg.Host != "" {
		os.Setenv("CHARM_HOST", cfg.Host)
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return newCharmCache(db, cfg), nil
}

func newCharmCache(store kvStore, cfg *CharmConfig) *CharmCache {
	if cfg.SyncDelay <= 0 {
		cfg.SyncDelay = DefaultSyncDelay
	}
	return &CharmCache{kv: store, config: cfg}
}

// EmbeddingKey generates the KV key for a cache key
func EmbeddingKey(key string) string {
	return EmbeddingPrefix + key
}

// Get returns the vector stored under key
func (c *CharmCache) Get(key string) ([]float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false, nil
	}

	data, err := c.kv.Get([]byte(EmbeddingKey(key)))
	if err != nil || data == nil {
		// badger reports a missing key as an error; treat any read miss as a miss
		return nil, false, nil
	}

	var entry charmEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached embedding: %w", err)
	}
	return entry.Vector, true, nil
}

// Put stores vector under key. With auto-sync on, a sync is scheduled
// SyncDelay after the first unsynced write, so a burst of writes syncs once.
func (c *CharmCache) Put(key string, vector []float64) error {
	data, err := json.Marshal(charmEntry{Vector: vector})
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("charm cache is closed")
	}
	err = c.kv.Set([]byte(EmbeddingKey(key)), data)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	if c.config.AutoSync {
		c.scheduleSync()
	}
	return nil
}

func (c *CharmCache) scheduleSync() {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()
	if c.syncTimer == nil {
		c.syncTimer = time.AfterFunc(c.config.SyncDelay, c.flush)
	}
}

// flush runs the scheduled sync
func (c *CharmCache) flush() {
	c.syncMu.Lock()
	c.syncTimer = nil
	c.syncMu.Unlock()

	if err := c.Sync(); err != nil {
		log.Printf("Warning: charm sync failed: %v", err)
	}
}

// Sync manually triggers a sync with the cloud
func (c *CharmCache) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.kv.Sync()
}

// Close pushes any pending writes and closes the KV database
func (c *CharmCache) Close() error {
	c.syncMu.Lock()
	pending := c.syncTimer != nil && c.syncTimer.Stop()
	c.syncTimer = nil
	c.syncMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if pending {
		if err := c.kv.Sync(); err != nil {
			log.Printf("Warning: charm sync on close failed: %v", err)
		}
	}
	return c.kv.Close()
}
