// ABOUTME: Relevance ranker embedding passages and the query concurrently
// ABOUTME: Scores by cosine similarity, stable-sorts and keeps the top K
package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harper/folio/internal/models"
)

// DefaultTopK is the number of passages kept in the context
const DefaultTopK = 3

// Embedder turns text into a fixed-dimension vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Ranker scores passages against a query
type Ranker struct {
	embedder    Embedder
	concurrency int
}

// NewRanker creates a Ranker issuing at most concurrency embedding calls at once
func NewRanker(embedder Embedder, concurrency int) *Ranker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Ranker{
		embedder:    embedder,
		concurrency: concurrency,
	}
}

// Rank embeds every passage and the query, then returns the top k passages.
// One failed embedding call aborts the whole ranking.
func (r *Ranker) Rank(ctx context.Context, passages []models.Passage, query string, k int) ([]models.ScoredPassage, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	vectors := make([][]float64, len(passages))
	var queryVector []float64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	g.Go(func() error {
		v, err := r.embedder.Embed(gctx, query)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		queryVector = v
		return nil
	})

	for i, p := range passages {
		g.Go(func() error {
			v, err := r.embedder.Embed(gctx, p.Text)
			if err != nil {
				return fmt.Errorf("passage %s: %w", p.ID, err)
			}
			// results are paired by index, never by arrival order
			vectors[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, wrap(ErrEmbeddingFailure, err)
	}

	return RankVectors(passages, vectors, queryVector, k)
}

// RankVectors scores pre-computed vectors against query and keeps the top k.
// Ties keep corpus order.
func RankVectors(passages []models.Passage, vectors [][]float64, query []float64, k int) ([]models.ScoredPassage, error) {
	if len(vectors) != len(passages) {
		return nil, fmt.Errorf("%w: %d vectors for %d passages", ErrEmbeddingFailure, len(vectors), len(passages))
	}

	scored := make([]models.ScoredPassage, len(passages))
	for i, p := range passages {
		score, degenerate, err := cosine(vectors[i], query)
		if err != nil {
			return nil, fmt.Errorf("passage %s: %w", p.ID, err)
		}
		if degenerate {
			log.Printf("Warning: zero-magnitude embedding comparing passage %s, scoring 0", p.ID)
		}
		scored[i] = models.ScoredPassage{Passage: p, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k >= 0 && len(scored) > k {
		scored = scored[:k]
	}

	return scored, nil
}

// ContextText joins the ranked passage texts with newlines
func ContextText(ranked []models.ScoredPassage) string {
	texts := make([]string, len(ranked))
	for i, sp := range ranked {
		texts[i] = sp.Passage.Text
	}
	return strings.Join(texts, "\n")
}
