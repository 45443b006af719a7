// ABOUTME: Ranking result model for passage retrieval
// ABOUTME: A ScoredPassage pairs a passage with its cosine score against the query
package models

// ScoredPassage represents a passage ranked against a query
type ScoredPassage struct {
	Passage Passage `json:"passage"`
	Score   float64 `json:"score"`
}
