// ABOUTME: Streaming chat completion client for OpenAI-compatible APIs
// ABOUTME: Defaults to Groq's endpoint and llama3-8b-8192; relays deltas as they arrive
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/models"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the default chat model
	DefaultModel = "llama3-8b-8192"
)

// ClientConfig holds configuration for the completion client
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	// OpenTimeout bounds the wait for response headers; the stream itself is unbounded
	OpenTimeout time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: 0.5,
		OpenTimeout: 30 * time.Second,
	}
}

// StreamClient wraps the go-openai client for streaming completions
type StreamClient struct {
	client      *openai.Client
	model       string
	temperature float32
	openTimeout time.Duration
}

// NewStreamClient creates a completion client
func NewStreamClient(config *ClientConfig) (*StreamClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("completion API key is required")
	}

	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	return &StreamClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(config.Temperature),
		openTimeout: config.OpenTimeout,
	}, nil
}

// Stream opens a streaming completion for messages. Cancelling ctx aborts
// the upstream request at any point.
func (c *StreamClient) Stream(ctx context.Context, messages []core.Message) (core.ChunkStream, error) {
	temperature := c.temperature
	if temperature == 0 {
		// go-openai omits a zero temperature and the provider would apply its own default
		temperature = math.SmallestNonzeroFloat32
	}
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: temperature,
		Stream:      true,
	}

	sctx, cancel := context.WithCancel(ctx)
	var timer *time.Timer
	if c.openTimeout > 0 {
		timer = time.AfterFunc(c.openTimeout, cancel)
	}

	stream, err := c.client.CreateChatCompletionStream(sctx, req)
	timedOut := timer != nil && !timer.Stop()
	if timedOut && err == nil {
		// the timer fired just after headers arrived; the stream is already cancelled
		stream.Close()
		err = context.DeadlineExceeded
	}
	if err != nil {
		cancel()
		if timedOut {
			return nil, fmt.Errorf("%w: no response within %s", core.ErrUpstreamFailure, c.openTimeout)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", core.ErrUpstreamFailure, err)
	}

	return &Stream{stream: stream, cancel: cancel}, nil
}

// Stream adapts a go-openai completion stream to core.ChunkStream
type Stream struct {
	stream   *openai.ChatCompletionStream
	cancel   context.CancelFunc
	finished bool
}

// Recv returns the next delta of choice 0, or io.EOF once the provider has
// reported a finish reason. A body that ends before any finish reason is
// io.ErrUnexpectedEOF, since go-openai reports [DONE] and a bare close alike.
func (s *Stream) Recv() (models.AnswerChunk, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if !s.finished {
				return models.AnswerChunk{}, io.ErrUnexpectedEOF
			}
			return models.AnswerChunk{}, io.EOF
		}
		return models.AnswerChunk{}, err
	}

	if len(resp.Choices) == 0 {
		return models.AnswerChunk{}, nil
	}
	if resp.Choices[0].FinishReason != "" {
		s.finished = true
	}
	return models.AnswerChunk{Content: resp.Choices[0].Delta.Content}, nil
}

// Close releases the upstream connection
func (s *Stream) Close() error {
	s.cancel()
	return s.stream.Close()
}

func toOpenAIMessages(messages []core.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == core.RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		out[i] = openai.ChatCompletionMessage{Role: role, Content: m.Content}
	}
	return out
}

var _ core.Completer = (*StreamClient)(nil)
