// ABOUTME: Test doubles for the ask pipeline
// ABOUTME: Stub embedder, corpus and completer with call recording
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harper/folio/internal/models"
)

type stubEmbedder struct {
	vectors map[string][]float64
	fail    map[string]error
	delay   func(text string) time.Duration
	calls   atomic.Int32
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	s.calls.Add(1)
	if s.delay != nil {
		select {
		case <-time.After(s.delay(text)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := s.fail[text]; ok {
		return nil, err
	}
	v, ok := s.vectors[text]
	if !ok {
		return nil, errors.New("no stub vector for " + text)
	}
	return v, nil
}

type stubCorpus struct {
	corpus *models.Corpus
	err    error
}

func (s *stubCorpus) Corpus(ctx context.Context) (*models.Corpus, error) {
	return s.corpus, s.err
}

func corpusOf(texts ...string) *models.Corpus {
	passages := make([]models.Passage, len(texts))
	for i, t := range texts {
		passages[i] = models.Passage{ID: fmt.Sprintf("p%d", i), Index: i, Text: t}
	}
	return models.NewCorpus(passages)
}

type stubStream struct {
	chunks  []string
	failAt  int // index at which Recv returns failErr; -1 never
	failErr error
	pos     int
	closed  bool
}

func (s *stubStream) Recv() (models.AnswerChunk, error) {
	if s.failAt >= 0 && s.pos == s.failAt {
		return models.AnswerChunk{}, s.failErr
	}
	if s.pos >= len(s.chunks) {
		return models.AnswerChunk{}, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return models.AnswerChunk{Content: c}, nil
}

func (s *stubStream) Close() error {
	s.closed = true
	return nil
}

type stubCompleter struct {
	mu       sync.Mutex
	stream   *stubStream
	err      error
	messages []Message
	calls    int
}

func (s *stubCompleter) Stream(ctx context.Context, messages []Message) (ChunkStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.messages = messages
	if s.err != nil {
		return nil, s.err
	}
	return s.stream, nil
}
