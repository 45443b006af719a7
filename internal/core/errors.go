// ABOUTME: Error taxonomy for the ask pipeline
// ABOUTME: Sentinels map pipeline failures to HTTP statuses at the transport edge
package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is a missing/empty prompt or malformed request body
	ErrValidation = errors.New("invalid request")
	// ErrDataUnavailable means the corpus could not be loaded
	ErrDataUnavailable = errors.New("corpus unavailable")
	// ErrEmbeddingFailure covers non-2xx, unparsable or mismatched embeddings
	ErrEmbeddingFailure = errors.New("embedding failed")
	// ErrUpstreamFailure means the completion stream could not be opened or was empty
	ErrUpstreamFailure = errors.New("completion provider failed")
	// ErrStreamInterrupted means the completion stream broke after output began
	ErrStreamInterrupted = errors.New("completion stream interrupted")
)

// wrap tags err with sentinel unless it already carries it or is a cancellation
func wrap(sentinel, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// HTTPStatus maps a pipeline error to the status returned before streaming starts
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the short plain-text body returned to callers for err
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.Is(err, ErrDataUnavailable):
		return "Failed to load data"
	case errors.Is(err, ErrEmbeddingFailure):
		return "Failed to embed text"
	case errors.Is(err, ErrUpstreamFailure):
		return "Failed to fetch completion"
	default:
		return "Internal error"
	}
}
