// ABOUTME: Passage and Corpus models for the retrievable context
// ABOUTME: A corpus is the ordered, read-only list of passages built from the bio and projects
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Passage sources
const (
	SourceAbout   = "about"
	SourceProject = "project"
)

// Passage is one retrievable unit of context
type Passage struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Index  int    `json:"index"`
	Text   string `json:"text"`
}

// Corpus is the ordered set of passages available for retrieval.
// It is never mutated after construction; reloads build a new Corpus.
type Corpus struct {
	Passages []Passage `json:"passages"`
	LoadedAt time.Time `json:"loaded_at"`
	Digest   string    `json:"digest"`
}

// NewCorpus builds a corpus and computes its digest
func NewCorpus(passages []Passage) *Corpus {
	h := sha256.New()
	for _, p := range passages {
		h.Write([]byte(p.Text))
		h.Write([]byte{0})
	}
	return &Corpus{
		Passages: passages,
		LoadedAt: time.Now(),
		Digest:   hex.EncodeToString(h.Sum(nil))[:16],
	}
}

// Len returns the number of passages
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Passages)
}

// Texts returns passage texts in corpus order
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.Passages))
	for i, p := range c.Passages {
		texts[i] = p.Text
	}
	return texts
}
