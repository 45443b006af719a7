// ABOUTME: Optional passage splitting using langchaingo's recursive character splitter
// ABOUTME: A zero chunk size leaves every passage whole
package corpus

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// Chunker splits long passages into smaller retrievable pieces
type Chunker struct {
	splitter textsplitter.TextSplitter
}

// NewChunker creates a Chunker; size 0 disables splitting
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		return &Chunker{}
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// Enabled reports whether passages are split
func (c *Chunker) Enabled() bool {
	return c != nil && c.splitter != nil
}

// Split returns the non-empty pieces of text
func (c *Chunker) Split(text string) ([]string, error) {
	if !c.Enabled() {
		return []string{text}, nil
	}

	parts, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting text: %w", err)
	}

	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
