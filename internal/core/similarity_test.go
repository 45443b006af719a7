// ABOUTME: Tests for cosine similarity
// ABOUTME: Covers symmetry, self-similarity, degenerate and mismatched vectors
package core

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{"identical vectors", []float64{1, 0, 0}, []float64{1, 0, 0}, 1.0},
		{"orthogonal vectors", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite vectors", []float64{1, 2, 3}, []float64{-1, -2, -3}, -1.0},
		{"scaled vectors", []float64{1, 2, 3}, []float64{2, 4, 6}, 1.0},
		{"zero query", []float64{1, 2}, []float64{0, 0}, 0.0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 0.0},
		{"empty vectors", []float64{}, []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("CosineSimilarity() error = %v", err)
			}
			if math.IsNaN(got) {
				t.Fatal("CosineSimilarity() returned NaN")
			}
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	pairs := [][2][]float64{
		{{0.3, -1.2, 4.5}, {2.2, 0.1, -0.7}},
		{{1, 1, 1, 1}, {0.5, -0.5, 0.25, 3}},
		{{-2, 7}, {3, 3}},
	}

	for _, p := range pairs {
		ab, _ := CosineSimilarity(p[0], p[1])
		ba, _ := CosineSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("score(a,b) = %v, score(b,a) = %v", ab, ba)
		}
		if ab < -1 || ab > 1 {
			t.Errorf("score %v outside [-1, 1]", ab)
		}
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	v := []float64{0.12, -3.4, 5.6, 7.8, -0.001}
	got, err := CosineSimilarity(v, v)
	if err != nil {
		t.Fatalf("CosineSimilarity() error = %v", err)
	}
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("self similarity = %v, want 1.0", got)
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float64{1, 0}, []float64{1, 0, 0})
	if !errors.Is(err, ErrEmbeddingFailure) {
		t.Errorf("error = %v, want ErrEmbeddingFailure", err)
	}
}
