// ABOUTME: Embedding provider interface and construction from config
// ABOUTME: Providers turn text into fixed-dimension vectors for ranking
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/folio/internal/config"
)

// Provider embeds text into a fixed-length float vector.
//
// Every vector a provider returns has the same dimension; vectors from
// different providers or models must never be compared.
type Provider interface {
	ModelID() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// NewFromConfig returns the provider selected by EMBEDDING_PROVIDER
func NewFromConfig(cfg *config.Config) (Provider, error) {
	opts := Options{
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}

	switch cfg.EmbeddingProvider {
	case "huggingface":
		return NewHuggingFace(cfg.HFEmbeddingURL, cfg.HFAPIKey, nil, opts), nil
	case "openai":
		p, err := NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}

// Options controls per-call timeout and retries
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}
