// ABOUTME: Hugging Face inference API embedding provider
// ABOUTME: POSTs {"inputs": text} with a bearer token and parses the returned vector
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/util"
)

// HuggingFaceProvider calls a feature-extraction inference endpoint
type HuggingFaceProvider struct {
	url    string
	apiKey string
	client *http.Client
	opts   Options
}

// NewHuggingFace creates a provider for url; a nil client uses http.DefaultClient
func NewHuggingFace(url, apiKey string, client *http.Client, opts Options) *HuggingFaceProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFaceProvider{
		url:    url,
		apiKey: apiKey,
		client: client,
		opts:   opts,
	}
}

// ModelID identifies the endpoint for cache keys
func (p *HuggingFaceProvider) ModelID() string {
	return "huggingface:" + p.url
}

// Embed returns the vector for text
func (p *HuggingFaceProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingFailure, err)
	}

	var lastErr error
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := util.SleepContext(ctx, util.CalculateBackoff(p.opts.RetryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		vector, retryable, err := p.embedOnce(ctx, body)
		if err == nil {
			return vector, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingFailure, lastErr)
}

func (p *HuggingFaceProvider) embedOnce(ctx context.Context, body []byte) ([]float64, bool, error) {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	vector, err := parseVector(data)
	return vector, false, err
}

// parseVector accepts a flat vector or a single-row matrix
func parseVector(data []byte) ([]float64, error) {
	var flat []float64
	if err := json.Unmarshal(data, &flat); err == nil {
		if len(flat) == 0 {
			return nil, fmt.Errorf("empty embedding")
		}
		return flat, nil
	}

	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("cannot parse embedding response: %w", err)
	}
	if len(rows) != 1 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("expected one embedding row, got %d", len(rows))
	}
	return rows[0], nil
}

var _ Provider = (*HuggingFaceProvider)(nil)
