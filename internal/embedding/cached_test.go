// ABOUTME: Tests for the caching embedding decorator
// ABOUTME: Verifies hits skip the provider and cache errors are tolerated
package embedding

import (
	"context"
	"errors"
	"testing"
)

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) ModelID() string { return "test-model" }

func (c *countingProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float64{float64(len(text)), 1}, nil
}

type brokenCache struct{}

func (brokenCache) Get(string) ([]float64, bool, error) { return nil, false, errors.New("disk gone") }
func (brokenCache) Put(string, []float64) error        { return errors.New("disk gone") }

func TestCachedProvider_HitSkipsProvider(t *testing.T) {
	inner := &countingProvider{}
	cache := NewMemoryCache()
	p := NewCached(inner, cache)

	for i := 0; i < 3; i++ {
		vec, err := p.Embed(context.Background(), "hello")
		if err != nil {
			t.Fatalf("Embed() error = %v", err)
		}
		if vec[0] != 5 {
			t.Errorf("vector = %v", vec)
		}
	}

	if inner.calls != 1 {
		t.Errorf("provider calls = %d, want 1", inner.calls)
	}
	if cache.Len() != 1 {
		t.Errorf("cache size = %d, want 1", cache.Len())
	}
}

func TestCachedProvider_CacheErrorsAreSoft(t *testing.T) {
	inner := &countingProvider{}
	p := NewCached(inner, brokenCache{})

	if _, err := p.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("Embed() error = %v, cache errors should not fail", err)
	}
	if inner.calls != 1 {
		t.Errorf("provider calls = %d, want 1", inner.calls)
	}
}

func TestCachedProvider_ProviderErrorNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("HTTP 500")}
	cache := NewMemoryCache()

	if _, err := NewCached(inner, cache).Embed(context.Background(), "x"); err == nil {
		t.Fatal("Embed() should fail")
	}
	if cache.Len() != 0 {
		t.Error("failed embeddings must not be cached")
	}
}

func TestCacheKey(t *testing.T) {
	if CacheKey("m1", "text") == CacheKey("m2", "text") {
		t.Error("different models must produce different keys")
	}
	if CacheKey("m", "ab") == CacheKey("ma", "b") {
		t.Error("model/text boundary must be part of the key")
	}
	if len(CacheKey("m", "t")) != 64 {
		t.Error("key should be a hex sha256")
	}
}
