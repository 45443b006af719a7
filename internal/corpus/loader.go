// ABOUTME: Loader turns raw source material into an ordered corpus
// ABOUTME: The bio is always first, then one passage per project in list order
package corpus

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/models"
)

// Loader fetches from a Source and builds a corpus
type Loader struct {
	source  Source
	chunker *Chunker
}

// NewLoader creates a Loader; chunker may be nil
func NewLoader(source Source, chunker *Chunker) *Loader {
	return &Loader{source: source, chunker: chunker}
}

// Load fetches and builds a fresh corpus
func (l *Loader) Load(ctx context.Context) (*models.Corpus, error) {
	raw, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Build(raw.About, raw.Projects, l.chunker)
}

// Build assembles passages from the bio and projects
func Build(about string, projects []models.Project, chunker *Chunker) (*models.Corpus, error) {
	var passages []models.Passage

	add := func(id, source, text string) error {
		pieces, err := chunker.Split(text)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", core.ErrDataUnavailable, id, err)
		}
		for i, piece := range pieces {
			pid := id
			if len(pieces) > 1 {
				pid = fmt.Sprintf("%s#%d", id, i)
			}
			passages = append(passages, models.Passage{
				ID:     pid,
				Source: source,
				Index:  len(passages),
				Text:   piece,
			})
		}
		return nil
	}

	if strings.TrimSpace(about) != "" {
		if err := add(models.SourceAbout, models.SourceAbout, about); err != nil {
			return nil, err
		}
	} else {
		log.Println("Warning: about text is empty, corpus has no biography passage")
	}

	for i, p := range projects {
		if strings.TrimSpace(p.Title) == "" && strings.TrimSpace(p.Desc) == "" {
			log.Printf("Warning: skipping project %d with no title or description", i)
			continue
		}
		if err := add(fmt.Sprintf("project:%d", i), models.SourceProject, p.Passage()); err != nil {
			return nil, err
		}
	}

	if len(passages) == 0 {
		return nil, fmt.Errorf("%w: corpus has no passages", core.ErrDataUnavailable)
	}

	return models.NewCorpus(passages), nil
}
