// ABOUTME: Cosine similarity over embedding vectors
// ABOUTME: Zero-magnitude vectors score 0 instead of producing NaN
package core

import (
	"fmt"
	"math"
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|).
// Vectors of different dimension are an error; a zero-magnitude vector scores 0.
func CosineSimilarity(a, b []float64) (float64, error) {
	score, _, err := cosine(a, b)
	return score, err
}

// cosine also reports whether either vector had zero magnitude
func cosine(a, b []float64) (float64, bool, error) {
	if len(a) != len(b) {
		return 0, false, fmt.Errorf("%w: dimension mismatch %d != %d", ErrEmbeddingFailure, len(a), len(b))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, true, nil
	}

	score := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	// rounding can push identical vectors a hair past 1
	return math.Max(-1, math.Min(1, score)), false, nil
}
