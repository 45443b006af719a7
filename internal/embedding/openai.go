// ABOUTME: OpenAI-compatible embedding provider built on go-openai
// ABOUTME: Converts the float32 vectors the API returns into float64
package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/util"
)

// OpenAIProvider wraps the OpenAI embeddings endpoint
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
	opts   Options
}

// NewOpenAI creates a provider; an empty baseURL uses api.openai.com
func NewOpenAI(apiKey, baseURL, model string, opts Options) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(model),
		opts:   opts,
	}, nil
}

// ModelID identifies the model for cache keys
func (p *OpenAIProvider) ModelID() string {
	return "openai:" + string(p.model)
}

// Embed returns the vector for text
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := util.SleepContext(ctx, util.CalculateBackoff(p.opts.RetryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		vector, err := p.embedOnce(ctx, text)
		if err == nil {
			return vector, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
	}

	return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingFailure, lastErr)
}

func (p *OpenAIProvider) embedOnce(ctx context.Context, text string) ([]float64, error) {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	// Convert []float32 to []float64
	embedding32 := resp.Data[0].Embedding
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}
	return embedding64, nil
}

var _ Provider = (*OpenAIProvider)(nil)
