// ABOUTME: HTTP transport for the ask pipeline
// ABOUTME: POST /api/ask relays answer deltas as SSE; health and corpus listing alongside
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/harper/folio/internal/config"
	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/models"
)

// maxBodyBytes bounds the ask request body
const maxBodyBytes = 64 << 10

// Pipeline is the part of core.Asker the transport needs
type Pipeline interface {
	Ask(ctx context.Context, q models.Query) (*core.Answer, error)
	Passages(ctx context.Context) ([]models.Passage, error)
}

// Options controls how answers are written
type Options struct {
	Addr            string
	InterruptPolicy string
	StreamFormat    string
}

// Server is the HTTP server for the ask API
type Server struct {
	pipeline Pipeline
	opts     Options
}

// New creates a Server. Empty options fall back to SSE with the close policy.
func New(pipeline Pipeline, opts Options) *Server {
	if opts.InterruptPolicy == "" {
		opts.InterruptPolicy = config.InterruptClose
	}
	if opts.StreamFormat == "" {
		opts.StreamFormat = config.StreamFormatSSE
	}
	return &Server{pipeline: pipeline, opts: opts}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/corpus", s.handleCorpus)

	return requestIDMiddleware(corsMiddleware(loggingMiddleware(mux)))
}

// Start runs the HTTP server until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:        s.opts.Addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// answers stream for as long as the provider keeps producing
		WriteTimeout: 300 * time.Second,
	}

	log.Printf("folio server starting on %s", s.opts.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleAsk validates the question, runs the pipeline and relays the answer
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var q models.Query
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&q); err != nil {
		http.Error(w, "Malformed request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	answer, err := s.pipeline.Ask(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			// caller went away, nobody is listening
			return
		}
		log.Printf("Warning: ask %s failed: %v", requestID(ctx), err)
		http.Error(w, core.PublicMessage(err), core.HTTPStatus(err))
		return
	}
	defer answer.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	if s.opts.StreamFormat == config.StreamFormatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/event-stream")
	}
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for {
		chunk, err := answer.Recv()
		if errors.Is(err, io.EOF) {
			s.writeDone(w)
			flusher.Flush()
			return
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Warning: ask %s: %v", requestID(ctx), err)
				s.writeInterrupted(w)
				flusher.Flush()
			}
			return
		}
		if err := s.writeChunk(w, chunk); err != nil {
			return
		}
		flusher.Flush()
	}
}

type deltaFrame struct {
	Choices []deltaChoice `json:"choices"`
}

type deltaChoice struct {
	Delta models.AnswerChunk `json:"delta"`
}

func (s *Server) writeChunk(w io.Writer, chunk models.AnswerChunk) error {
	if s.opts.StreamFormat == config.StreamFormatText {
		_, err := io.WriteString(w, chunk.Content)
		return err
	}
	data, err := json.Marshal(deltaFrame{Choices: []deltaChoice{{Delta: chunk}}})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

func (s *Server) writeDone(w io.Writer) {
	if s.opts.StreamFormat == config.StreamFormatText {
		return
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
}

func (s *Server) writeInterrupted(w io.Writer) {
	if s.opts.InterruptPolicy != config.InterruptMarker || s.opts.StreamFormat == config.StreamFormatText {
		return
	}
	fmt.Fprint(w, "event: error\ndata: {\"error\":\"stream interrupted\"}\n\n")
}

// handleHealth reports the number of passages currently served
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	passages, err := s.pipeline.Passages(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "error": core.PublicMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "passages": len(passages)})
}

// handleCorpus lists the passages in corpus order
func (s *Server) handleCorpus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	passages, err := s.pipeline.Passages(r.Context())
	if err != nil {
		http.Error(w, core.PublicMessage(err), core.HTTPStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, passages)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}
