// ABOUTME: App wires the corpus, embedding, cache and completion components from config
// ABOUTME: Shared by the HTTP server, the CLI and the MCP command
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/harper/folio/internal/cache"
	"github.com/harper/folio/internal/config"
	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/corpus"
	"github.com/harper/folio/internal/embedding"
	"github.com/harper/folio/internal/llm"
)

// App holds the wired pipeline and the resources it owns
type App struct {
	Config   *config.Config
	Store    *corpus.Store
	Embedder embedding.Provider
	Asker    *core.Asker

	files   []string
	closers []io.Closer
}

// New builds every component named by cfg. In startup mode the corpus is
// loaded once here; a failed load is logged and every request then reports
// ErrDataUnavailable until a reload succeeds.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	var source corpus.Source
	if cfg.CorpusBaseURL != "" {
		source = corpus.NewHTTPSource(cfg.CorpusBaseURL, &http.Client{Timeout: cfg.Timeout})
	} else {
		files := corpus.NewFileSource(cfg.AboutPath, cfg.ProjectsPath)
		a.files = files.Paths()
		source = files
	}

	loader := corpus.NewLoader(source, corpus.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap))
	a.Store = corpus.NewStore(loader, cfg.CorpusMode == config.CorpusModeRequest)
	if cfg.CorpusMode == config.CorpusModeStartup {
		if c, err := a.Store.Reload(ctx); err != nil {
			log.Printf("Warning: initial corpus load failed: %v", err)
		} else {
			log.Printf("Loaded corpus: %d passages (digest %s)", c.Len(), c.Digest)
		}
	}

	provider, err := embedding.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	embedCache, err := a.openCache()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if embedCache != nil {
		provider = embedding.NewCached(provider, embedCache)
	}
	a.Embedder = provider

	var completer core.Completer
	client, err := llm.NewStreamClient(&llm.ClientConfig{
		APIKey:      cfg.CompletionKey,
		BaseURL:     cfg.CompletionBaseURL,
		Model:       cfg.CompletionModel,
		Temperature: cfg.Temperature,
		OpenTimeout: cfg.Timeout,
	})
	if err != nil {
		// search and corpus listing still work without completion credentials
		completer = unavailableCompleter{err: err}
	} else {
		completer = client
	}

	ranker := core.NewRanker(a.Embedder, cfg.EmbedConcurrency)
	a.Asker = core.NewAsker(a.Store, ranker, completer, cfg.SystemPrompt, cfg.TopK)

	return a, nil
}

func (a *App) openCache() (embedding.Cache, error) {
	switch a.Config.EmbedCache {
	case config.CacheMemory:
		return embedding.NewMemoryCache(), nil
	case config.CacheSQLite:
		c, err := cache.OpenSQLite(a.Config.CachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open embedding cache: %w", err)
		}
		a.closers = append(a.closers, c)
		return c, nil
	case config.CacheCharm:
		c, err := cache.OpenCharm(&cache.CharmConfig{
			Host:     a.Config.CharmHost,
			DBName:   a.Config.CharmDBName,
			AutoSync: a.Config.AutoSync,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open embedding cache: %w", err)
		}
		a.closers = append(a.closers, c)
		return c, nil
	default:
		return nil, nil
	}
}

// Watch reloads the corpus when the local files change, until ctx is done.
// It is a no-op for HTTP sources and request mode.
func (a *App) Watch(ctx context.Context) (<-chan struct{}, error) {
	if len(a.files) == 0 || a.Config.CorpusMode != config.CorpusModeStartup {
		return nil, nil
	}

	w, err := corpus.NewWatcher(a.Store, a.files...)
	if err != nil {
		return nil, fmt.Errorf("failed to watch corpus files: %w", err)
	}
	a.closers = append(a.closers, w)

	go w.Run(ctx)
	return w.Reloaded(), nil
}

// Close releases caches and watchers
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type unavailableCompleter struct {
	err error
}

func (u unavailableCompleter) Stream(ctx context.Context, messages []core.Message) (core.ChunkStream, error) {
	return nil, fmt.Errorf("%w: %w", core.ErrUpstreamFailure, u.err)
}
