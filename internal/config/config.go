// ABOUTME: Centralized configuration for the folio ask service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Corpus modes
const (
	CorpusModeStartup = "startup"
	CorpusModeRequest = "request"
)

// Stream interruption policies
const (
	InterruptClose  = "close"
	InterruptMarker = "marker"
)

// Stream formats
const (
	StreamFormatSSE  = "sse"
	StreamFormatText = "text"
)

// Embedding cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheCharm  = "charm"
)

// DefaultHFEmbeddingURL is the inference endpoint for all-MiniLM-L6-v2 (384 dimensions)
const DefaultHFEmbeddingURL = "https://api-inference.huggingface.co/embeddings/sentence-transformers/all-MiniLM-L6-v2"

// DefaultSystemPrompt is the persona instruction sent with every question
const DefaultSystemPrompt = "You are a helpful assistant who answers questions based on portfolio context provided."

// Config holds all configuration for the ask service
type Config struct {
	// Server settings
	Addr string

	// Corpus settings
	AboutPath     string
	ProjectsPath  string
	CorpusBaseURL string
	CorpusMode    string
	ChunkSize     int
	ChunkOverlap  int

	// Retrieval settings
	TopK             int
	EmbedConcurrency int

	// Embedding provider settings
	EmbeddingProvider string
	HFAPIKey          string
	HFEmbeddingURL    string
	OpenAIKey         string
	OpenAIBaseURL     string
	EmbeddingModel    string

	// Completion provider settings
	CompletionKey     string
	CompletionBaseURL string
	CompletionModel   string
	Temperature       float64
	SystemPrompt      string

	// Provider call behaviour
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Streaming behaviour
	InterruptPolicy string
	StreamFormat    string

	// Embedding cache settings
	EmbedCache  string
	CachePath   string
	CharmHost   string
	CharmDBName string
	AutoSync    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		Addr:              getEnv("FOLIO_ADDR", ":3000"),
		AboutPath:         getEnv("FOLIO_ABOUT_PATH", filepath.Join("data", "about.md")),
		ProjectsPath:      getEnv("FOLIO_PROJECTS_PATH", filepath.Join("data", "projects.json")),
		CorpusBaseURL:     os.Getenv("FOLIO_CORPUS_BASE_URL"),
		CorpusMode:        getEnv("FOLIO_CORPUS_MODE", CorpusModeStartup),
		ChunkSize:         getEnvInt("FOLIO_CHUNK_SIZE", 0),
		ChunkOverlap:      getEnvInt("FOLIO_CHUNK_OVERLAP", 0),
		TopK:              getEnvInt("FOLIO_TOP_K", 3),
		EmbedConcurrency:  getEnvInt("FOLIO_EMBED_CONCURRENCY", 8),
		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "huggingface"),
		HFAPIKey:          os.Getenv("HF_API_KEY"),
		HFEmbeddingURL:    getEnv("HF_EMBEDDING_URL", DefaultHFEmbeddingURL),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		CompletionKey:     os.Getenv("GROQ_API_KEY"),
		CompletionBaseURL: getEnv("COMPLETION_BASE_URL", "https://api.groq.com/openai/v1"),
		CompletionModel:   getEnv("COMPLETION_MODEL", "llama3-8b-8192"),
		Temperature:       getEnvFloat("COMPLETION_TEMPERATURE", 0.5),
		SystemPrompt:      getEnv("FOLIO_SYSTEM_PROMPT", DefaultSystemPrompt),
		Timeout:           getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),
		MaxRetries:        getEnvInt("PROVIDER_MAX_RETRIES", 0),
		RetryDelay:        getEnvDuration("PROVIDER_RETRY_DELAY", time.Second),
		InterruptPolicy:   getEnv("FOLIO_INTERRUPT_POLICY", InterruptClose),
		StreamFormat:      getEnv("FOLIO_STREAM_FORMAT", StreamFormatSSE),
		EmbedCache:        getEnv("FOLIO_EMBED_CACHE", CacheNone),
		CachePath:         getEnv("FOLIO_CACHE_PATH", DefaultCachePath()),
		CharmHost:         getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:       getEnv("CHARM_DB", "folio"),
		AutoSync:          getEnvBool("CHARM_AUTO_SYNC", true),
	}

	return cfg, cfg.Validate()
}

// DefaultCachePath returns the XDG data path for the SQLite embedding cache
func DefaultCachePath() string {
	return filepath.Join(xdg.DataHome, "folio", "embeddings.db")
}

func (c *Config) Validate() error {
	if c.TopK < 1 || c.TopK > 20 {
		return fmt.Errorf("FOLIO_TOP_K must be 1-20, got %d", c.TopK)
	}
	if c.EmbedConcurrency < 1 {
		return fmt.Errorf("FOLIO_EMBED_CONCURRENCY must be positive, got %d", c.EmbedConcurrency)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("COMPLETION_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.ChunkSize < 0 || c.ChunkOverlap < 0 {
		return fmt.Errorf("FOLIO_CHUNK_SIZE and FOLIO_CHUNK_OVERLAP must not be negative")
	}
	if c.ChunkSize > 0 && c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("FOLIO_CHUNK_OVERLAP (%d) must be smaller than FOLIO_CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if err := oneOf("FOLIO_CORPUS_MODE", c.CorpusMode, CorpusModeStartup, CorpusModeRequest); err != nil {
		return err
	}
	if err := oneOf("EMBEDDING_PROVIDER", c.EmbeddingProvider, "huggingface", "openai"); err != nil {
		return err
	}
	if err := oneOf("FOLIO_INTERRUPT_POLICY", c.InterruptPolicy, InterruptClose, InterruptMarker); err != nil {
		return err
	}
	if err := oneOf("FOLIO_STREAM_FORMAT", c.StreamFormat, StreamFormatSSE, StreamFormatText); err != nil {
		return err
	}
	return oneOf("FOLIO_EMBED_CACHE", c.EmbedCache, CacheNone, CacheMemory, CacheSQLite, CacheCharm)
}

// Warnings reports missing credentials that leave the service degraded
func (c *Config) Warnings() []string {
	var warnings []string
	switch c.EmbeddingProvider {
	case "huggingface":
		if c.HFAPIKey == "" {
			warnings = append(warnings, "HF_API_KEY not set - embedding calls will be unauthenticated")
		}
	case "openai":
		if c.OpenAIKey == "" {
			warnings = append(warnings, "OPENAI_API_KEY not set - embedding calls will fail")
		}
	}
	if c.CompletionKey == "" {
		warnings = append(warnings, "GROQ_API_KEY not set - completion calls will fail")
	}
	return warnings
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", name, allowed, value)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
