// ABOUTME: Tests for the Asker pipeline
// ABOUTME: Walks the request state machine from validation through streaming
package core

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/harper/folio/internal/models"
)

func newTestAsker(stream *stubStream) (*Asker, *stubEmbedder, *stubCompleter) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"Alice is an engineer.": {1, 0},
		"Bob is a painter.":     {0, 1},
		"Who is an engineer?":   {1, 0},
	}}
	completer := &stubCompleter{stream: stream}
	corpus := &stubCorpus{corpus: corpusOf("Alice is an engineer.", "Bob is a painter.")}
	return NewAsker(corpus, NewRanker(embedder, 4), completer, "Be brief.", 3), embedder, completer
}

func TestAsker_StreamsInOrder(t *testing.T) {
	stream := &stubStream{chunks: []string{"Hel", "lo"}, failAt: -1}
	asker, _, completer := newTestAsker(stream)

	answer, err := asker.Ask(context.Background(), models.Query{Prompt: "Who is an engineer?"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	text, err := answer.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if text != "Hello" {
		t.Errorf("Collect() = %q, want %q", text, "Hello")
	}
	if !stream.closed {
		t.Error("Collect() should close the upstream stream")
	}

	if len(answer.Sources) != 2 || answer.Sources[0].Passage.Text != "Alice is an engineer." {
		t.Errorf("Sources = %+v", answer.Sources)
	}
	if ids := answer.SourceIDs(); len(ids) != 2 || ids[0] != "p0" {
		t.Errorf("SourceIDs() = %v", ids)
	}

	msgs := completer.messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[0].Content != "Be brief." {
		t.Errorf("system message = %+v", msgs[0])
	}
	wantUser := "Context:\nAlice is an engineer.\nBob is a painter.\n\nQuestion: Who is an engineer?"
	if msgs[1].Role != RoleUser || msgs[1].Content != wantUser {
		t.Errorf("user message = %q, want %q", msgs[1].Content, wantUser)
	}
}

func TestAsker_ValidationSkipsProviders(t *testing.T) {
	for _, prompt := range []string{"", "   "} {
		asker, embedder, completer := newTestAsker(&stubStream{failAt: -1})

		_, err := asker.Ask(context.Background(), models.Query{Prompt: prompt})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Ask(%q) error = %v, want ErrValidation", prompt, err)
		}
		if HTTPStatus(err) != http.StatusBadRequest {
			t.Errorf("HTTPStatus = %d, want 400", HTTPStatus(err))
		}
		if embedder.calls.Load() != 0 || completer.calls != 0 {
			t.Errorf("providers called for invalid prompt: embed=%d complete=%d", embedder.calls.Load(), completer.calls)
		}
	}
}

func TestAsker_CorpusFailure(t *testing.T) {
	completer := &stubCompleter{}
	embedder := &stubEmbedder{}
	asker := NewAsker(&stubCorpus{err: errors.New("open data/about.md: no such file")}, NewRanker(embedder, 1), completer, "", 3)

	_, err := asker.Ask(context.Background(), models.Query{Prompt: "hi"})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("error = %v, want ErrDataUnavailable", err)
	}
	if HTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("HTTPStatus = %d, want 500", HTTPStatus(err))
	}
	if embedder.calls.Load() != 0 {
		t.Error("embedder called after corpus failure")
	}
}

func TestAsker_EmbeddingFailureSkipsCompletion(t *testing.T) {
	asker, embedder, completer := newTestAsker(&stubStream{failAt: -1})
	embedder.fail = map[string]error{"Bob is a painter.": errors.New("HTTP 500")}

	_, err := asker.Ask(context.Background(), models.Query{Prompt: "Who is an engineer?"})
	if !errors.Is(err, ErrEmbeddingFailure) {
		t.Fatalf("error = %v, want ErrEmbeddingFailure", err)
	}
	if completer.calls != 0 {
		t.Error("completion should not be requested after an embedding failure")
	}
}

func TestAsker_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name      string
		completer *stubCompleter
	}{
		{"open fails", &stubCompleter{err: errors.New("status 503")}},
		{"empty stream", &stubCompleter{stream: &stubStream{failAt: -1}}},
		{"first read fails", &stubCompleter{stream: &stubStream{chunks: []string{"x"}, failAt: 0, failErr: errors.New("reset")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker, _, _ := newTestAsker(nil)
			asker.completer = tt.completer

			_, err := asker.Ask(context.Background(), models.Query{Prompt: "Who is an engineer?"})
			if !errors.Is(err, ErrUpstreamFailure) {
				t.Errorf("error = %v, want ErrUpstreamFailure", err)
			}
			if tt.completer.stream != nil && !tt.completer.stream.closed {
				t.Error("stream should be closed after a failed first read")
			}
		})
	}
}

func TestAnswer_InterruptedMidStream(t *testing.T) {
	stream := &stubStream{chunks: []string{"Par", "tial", "never"}, failAt: 2, failErr: io.ErrUnexpectedEOF}
	asker, _, _ := newTestAsker(stream)

	answer, err := asker.Ask(context.Background(), models.Query{Prompt: "Who is an engineer?"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	text, err := answer.Collect()
	if !errors.Is(err, ErrStreamInterrupted) {
		t.Errorf("Collect() error = %v, want ErrStreamInterrupted", err)
	}
	if text != "Partial" {
		t.Errorf("Collect() = %q, want %q", text, "Partial")
	}
}

func TestAsker_Search(t *testing.T) {
	asker, _, completer := newTestAsker(nil)

	ranked, err := asker.Search(context.Background(), models.Query{Prompt: "Who is an engineer?"}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(ranked) != 1 || !strings.HasPrefix(ranked[0].Passage.Text, "Alice") {
		t.Errorf("Search() = %+v", ranked)
	}
	if completer.calls != 0 {
		t.Error("Search() must not call the completion provider")
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrDataUnavailable, "Failed to load data"},
		{ErrEmbeddingFailure, "Failed to embed text"},
		{ErrUpstreamFailure, "Failed to fetch completion"},
		{errors.New("boom"), "Internal error"},
	}
	for _, tt := range tests {
		if got := PublicMessage(tt.err); got != tt.want {
			t.Errorf("PublicMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
