// ABOUTME: Asker runs the retrieval-augmented pipeline for one question
// ABOUTME: Validate -> load corpus -> rank -> open completion stream, then relay deltas
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harper/folio/internal/models"
)

// CorpusProvider supplies the corpus for a request
type CorpusProvider interface {
	Corpus(ctx context.Context) (*models.Corpus, error)
}

// ChunkStream yields answer deltas in provider order until io.EOF
type ChunkStream interface {
	Recv() (models.AnswerChunk, error)
	Close() error
}

// Completer opens a streaming completion for messages
type Completer interface {
	Stream(ctx context.Context, messages []Message) (ChunkStream, error)
}

// Asker answers questions from the corpus
type Asker struct {
	corpus       CorpusProvider
	ranker       *Ranker
	completer    Completer
	systemPrompt string
	topK         int
}

// NewAsker creates an Asker keeping topK passages in the context
func NewAsker(corpus CorpusProvider, ranker *Ranker, completer Completer, systemPrompt string, topK int) *Asker {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &Asker{
		corpus:       corpus,
		ranker:       ranker,
		completer:    completer,
		systemPrompt: systemPrompt,
		topK:         topK,
	}
}

// Passages returns the corpus the next request would rank
func (a *Asker) Passages(ctx context.Context) ([]models.Passage, error) {
	c, err := a.corpus.Corpus(ctx)
	if err != nil {
		return nil, wrap(ErrDataUnavailable, err)
	}
	return c.Passages, nil
}

// Search ranks the corpus against q without calling the completion provider
func (a *Asker) Search(ctx context.Context, q models.Query, k int) ([]models.ScoredPassage, error) {
	if err := q.Validate(); err != nil {
		return nil, wrap(ErrValidation, err)
	}
	if k < 1 {
		k = a.topK
	}

	passages, err := a.Passages(ctx)
	if err != nil {
		return nil, err
	}

	return a.ranker.Rank(ctx, passages, q.Prompt, k)
}

// Ask prepares an answer stream for q. Every failure is reported here, before
// the caller has written anything: the first delta is read eagerly so an
// upstream that closes without output counts as ErrUpstreamFailure.
func (a *Asker) Ask(ctx context.Context, q models.Query) (*Answer, error) {
	sources, err := a.Search(ctx, q, a.topK)
	if err != nil {
		return nil, err
	}

	messages := BuildMessages(a.systemPrompt, ContextText(sources), q.Prompt)

	stream, err := a.completer.Stream(ctx, messages)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, wrap(ErrUpstreamFailure, err)
	}

	first, err := stream.Recv()
	if err != nil {
		_ = stream.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty stream", ErrUpstreamFailure)
		}
		return nil, wrap(ErrUpstreamFailure, err)
	}

	return &Answer{
		Sources: sources,
		stream:  stream,
		pending: &first,
	}, nil
}

// Answer is an open answer stream plus the passages it was grounded on
type Answer struct {
	Sources []models.ScoredPassage

	stream  ChunkStream
	pending *models.AnswerChunk
}

// Recv returns the next delta. io.EOF marks normal completion; any other
// error wraps ErrStreamInterrupted.
func (a *Answer) Recv() (models.AnswerChunk, error) {
	if a.pending != nil {
		chunk := *a.pending
		a.pending = nil
		return chunk, nil
	}

	chunk, err := a.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.AnswerChunk{}, io.EOF
		}
		return models.AnswerChunk{}, fmt.Errorf("%w: %w", ErrStreamInterrupted, err)
	}
	return chunk, nil
}

// Close releases the upstream stream
func (a *Answer) Close() error {
	return a.stream.Close()
}

// Collect drains the stream into one string. On interruption the partial
// text is returned together with the error.
func (a *Answer) Collect() (string, error) {
	defer a.Close()

	var sb strings.Builder
	for {
		chunk, err := a.Recv()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk.Content)
	}
}

// SourceIDs lists the ids of the passages used as context
func (a *Answer) SourceIDs() []string {
	ids := make([]string, len(a.Sources))
	for i, sp := range a.Sources {
		ids[i] = sp.Passage.ID
	}
	return ids
}
