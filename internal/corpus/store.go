// ABOUTME: Store owns the corpus served to requests
// ABOUTME: Startup mode loads once and swaps atomically on reload; request mode loads every time
package corpus

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/models"
)

// Store serves the corpus to the ask pipeline
type Store struct {
	loader     *Loader
	perRequest bool
	current    atomic.Pointer[models.Corpus]
}

// NewStore creates a Store; perRequest loads a fresh corpus for every call
func NewStore(loader *Loader, perRequest bool) *Store {
	return &Store{loader: loader, perRequest: perRequest}
}

// Reload loads the corpus and makes it current. On failure the previous
// corpus stays in place.
func (s *Store) Reload(ctx context.Context) (*models.Corpus, error) {
	c, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.current.Store(c)
	return c, nil
}

// Corpus returns the corpus for one request
func (s *Store) Corpus(ctx context.Context) (*models.Corpus, error) {
	if s.perRequest {
		return s.loader.Load(ctx)
	}
	if c := s.current.Load(); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: corpus not loaded", core.ErrDataUnavailable)
}

// Current returns the held corpus without loading, or nil
func (s *Store) Current() *models.Corpus {
	return s.current.Load()
}
