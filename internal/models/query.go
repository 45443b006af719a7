// ABOUTME: Query and AnswerChunk models for the ask pipeline
// ABOUTME: A query is one visitor question; chunks are streamed answer deltas
package models

import (
	"errors"
	"strings"
)

// ErrEmptyPrompt is returned when a query carries no question
var ErrEmptyPrompt = errors.New("prompt is required")

// Query is the incoming question
type Query struct {
	Prompt string `json:"prompt"`
}

// Validate checks the prompt is present
func (q Query) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// AnswerChunk is one increment of streamed output. Content may be empty.
type AnswerChunk struct {
	Content string `json:"content"`
}
