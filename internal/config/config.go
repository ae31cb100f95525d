// Package config loads and validates Folio configuration.
// Settings come from a TOML file (default ~/.folio/config.toml) and can be
// overridden per-run through FOLIO_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Chunking bounds. Segments smaller than ~100 runes carry too little
// context to embed usefully; segments above 4096 overflow most
// embedding model windows.
const (
	MinChunkSize = 100
	MaxChunkSize = 4096
	MaxOverlap   = 512
	MinTopK      = 1
	MaxTopK      = 20
)

// Defaults applied when the config file omits a value.
const (
	DefaultChunkSize      = 512
	DefaultChunkOverlap   = 50
	DefaultTopK           = 5
	DefaultPreviewLength  = 200
	DefaultCollection     = "default"
	DefaultFallbackAnswer = "No documents found. Please upload some documents first."
)

// Config holds all Folio settings.
type Config struct {
	Chunking   ChunkingConfig  `toml:"chunking"`
	Retrieval  RetrievalConfig `toml:"retrieval"`
	Embedding  ProviderConfig  `toml:"embedding"`
	Generation ProviderConfig  `toml:"generation"`
	Store      StoreConfig     `toml:"store"`
}

// ChunkingConfig controls how documents are split into segments.
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// RetrievalConfig controls retrieval and answer shaping.
type RetrievalConfig struct {
	TopK           int    `toml:"top_k"`
	PreviewLength  int    `toml:"preview_length"`
	FallbackAnswer string `toml:"fallback_answer"`
	Collection     string `toml:"collection"`
}

// ProviderConfig selects and configures an AI provider.
// Provider is "ollama" or "openai".
type ProviderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// StoreConfig selects the vector store backend.
// Backend is "sqlite" (persistent, default) or "memory" (in-process index).
type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Chunking: ChunkingConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK:           DefaultTopK,
			PreviewLength:  DefaultPreviewLength,
			FallbackAnswer: DefaultFallbackAnswer,
			Collection:     DefaultCollection,
		},
		// Model and BaseURL stay empty here: each adapter fills its own
		// per-provider default, so switching providers never inherits
		// another provider's endpoint or model name.
		Embedding: ProviderConfig{
			Provider: "ollama",
		},
		Generation: ProviderConfig{
			Provider: "ollama",
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    filepath.Join(home, ".folio", "folio.db"),
		},
	}
}

// Load reads configuration from the TOML file at path, fills in defaults
// for anything unset, applies FOLIO_* environment overrides, and validates.
// If path is empty, ~/.folio/config.toml is used. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".folio", "config.toml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from FOLIO_* environment variables.
func (c *Config) applyEnv() {
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setInt("FOLIO_CHUNK_SIZE", &c.Chunking.ChunkSize)
	setInt("FOLIO_CHUNK_OVERLAP", &c.Chunking.ChunkOverlap)
	setInt("FOLIO_TOP_K", &c.Retrieval.TopK)
	setInt("FOLIO_PREVIEW_LENGTH", &c.Retrieval.PreviewLength)
	setStr("FOLIO_FALLBACK_ANSWER", &c.Retrieval.FallbackAnswer)
	setStr("FOLIO_COLLECTION", &c.Retrieval.Collection)

	setStr("FOLIO_EMBEDDING_PROVIDER", &c.Embedding.Provider)
	setStr("FOLIO_EMBEDDING_MODEL", &c.Embedding.Model)
	setStr("FOLIO_EMBEDDING_BASE_URL", &c.Embedding.BaseURL)
	setStr("FOLIO_GENERATION_PROVIDER", &c.Generation.Provider)
	setStr("FOLIO_GENERATION_MODEL", &c.Generation.Model)
	setStr("FOLIO_GENERATION_BASE_URL", &c.Generation.BaseURL)

	// OPENAI_API_KEY is the conventional variable; FOLIO_OPENAI_API_KEY wins.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = v
		}
		if c.Generation.APIKey == "" {
			c.Generation.APIKey = v
		}
	}
	setStr("FOLIO_OPENAI_API_KEY", &c.Embedding.APIKey)
	setStr("FOLIO_OPENAI_API_KEY", &c.Generation.APIKey)

	setStr("FOLIO_STORE_BACKEND", &c.Store.Backend)
	setStr("FOLIO_STORE_PATH", &c.Store.Path)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize < MinChunkSize || c.Chunking.ChunkSize > MaxChunkSize {
		return fmt.Errorf("chunk_size must be between %d and %d, got %d",
			MinChunkSize, MaxChunkSize, c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap > MaxOverlap {
		return fmt.Errorf("chunk_overlap must be between 0 and %d, got %d",
			MaxOverlap, c.Chunking.ChunkOverlap)
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)",
			c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}
	if c.Retrieval.TopK < MinTopK || c.Retrieval.TopK > MaxTopK {
		return fmt.Errorf("top_k must be between %d and %d, got %d",
			MinTopK, MaxTopK, c.Retrieval.TopK)
	}
	if c.Retrieval.PreviewLength <= 0 {
		return fmt.Errorf("preview_length must be positive, got %d", c.Retrieval.PreviewLength)
	}
	if c.Retrieval.FallbackAnswer == "" {
		return fmt.Errorf("fallback_answer must not be empty")
	}
	if c.Retrieval.Collection == "" {
		return fmt.Errorf("collection must not be empty")
	}

	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.Generation.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown generation provider %q", c.Generation.Provider)
	}
	if c.Embedding.Provider == "openai" && c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding provider openai requires an API key")
	}
	if c.Generation.Provider == "openai" && c.Generation.APIKey == "" {
		return fmt.Errorf("generation provider openai requires an API key")
	}

	switch c.Store.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("sqlite store requires a path")
	}
	return nil
}

// Save writes the configuration as TOML to path, creating the parent
// directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
