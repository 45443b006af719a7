// ABOUTME: Caching decorator for embedding providers
// ABOUTME: Cache failures are logged and never fail the request
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"
)

// Cache stores vectors by key
type Cache interface {
	Get(key string) ([]float64, bool, error)
	Put(key string, vector []float64) error
}

// CachedProvider consults a Cache before calling the wrapped provider
type CachedProvider struct {
	provider Provider
	cache    Cache
}

// NewCached wraps provider with cache
func NewCached(provider Provider, cache Cache) *CachedProvider {
	return &CachedProvider{provider: provider, cache: cache}
}

// CacheKey derives the cache key for text under model
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// ModelID returns the wrapped provider's model
func (c *CachedProvider) ModelID() string {
	return c.provider.ModelID()
}

// Embed returns a cached vector or embeds and stores it
func (c *CachedProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	key := CacheKey(c.provider.ModelID(), text)

	vector, ok, err := c.cache.Get(key)
	if err != nil {
		log.Printf("Warning: embedding cache read failed: %v", err)
	} else if ok {
		return vector, nil
	}

	vector, err = c.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(key, vector); err != nil {
		log.Printf("Warning: embedding cache write failed: %v", err)
	}
	return vector, nil
}

// MemoryCache is a process-wide in-memory Cache
type MemoryCache struct {
	mu      sync.RWMutex
	vectors map[string][]float64
}

// NewMemoryCache creates an empty MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{vectors: make(map[string][]float64)}
}

// Get returns the vector for key
func (m *MemoryCache) Get(key string) ([]float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vectors[key]
	return v, ok, nil
}

// Put stores vector under key
func (m *MemoryCache) Put(key string, vector []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[key] = vector
	return nil
}

// Len returns the number of cached vectors
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}

var _ Provider = (*CachedProvider)(nil)
