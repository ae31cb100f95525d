// Command folio is a local question-answering CLI for your documents.
// It wires the configured embedding, generation, and storage adapters
// into the ingestion and retrieval services and hands them to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	embedollama "github.com/folio-labs/folio-cli/internal/adapters/driven/embedding/ollama"
	embedopenai "github.com/folio-labs/folio-cli/internal/adapters/driven/embedding/openai"
	"github.com/folio-labs/folio-cli/internal/adapters/driven/extract/plaintext"
	genollama "github.com/folio-labs/folio-cli/internal/adapters/driven/generation/ollama"
	genopenai "github.com/folio-labs/folio-cli/internal/adapters/driven/generation/openai"
	"github.com/folio-labs/folio-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/folio-labs/folio-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/folio-labs/folio-cli/internal/adapters/driving/cli"
	"github.com/folio-labs/folio-cli/internal/config"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/services"
	"github.com/folio-labs/folio-cli/internal/splitter"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Environment files are optional; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer generator.Close() //nolint:errcheck

	store, err := newStore(cfg, embedder.Dimensions())
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	split, err := splitter.New(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("configuring splitter: %w", err)
	}

	ingestSvc := services.NewIngestionService(split, embedder, store)
	querySvc := services.NewRetrievalService(
		embedder, store, generator,
		services.WithPreviewLength(cfg.Retrieval.PreviewLength),
		services.WithFallbackAnswer(cfg.Retrieval.FallbackAnswer),
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingest:    ingestSvc,
		Query:     querySvc,
		Store:     store,
		Extractor: plaintext.NewExtractor(),
		Config:    cfg,
	})

	return cli.Execute()
}

// newEmbedder builds the embedding adapter selected by the config.
func newEmbedder(cfg *config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedopenai.NewEmbeddingService(embedopenai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	default:
		return embedollama.NewEmbeddingService(embedollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}), nil
	}
}

// newGenerator builds the generation adapter selected by the config.
func newGenerator(cfg *config.Config) (driven.GenerationService, error) {
	switch cfg.Generation.Provider {
	case "openai":
		return genopenai.NewGenerationService(genopenai.Config{
			APIKey:  cfg.Generation.APIKey,
			BaseURL: cfg.Generation.BaseURL,
			Model:   cfg.Generation.Model,
		})
	default:
		return genollama.NewGenerationService(genollama.Config{
			BaseURL: cfg.Generation.BaseURL,
			Model:   cfg.Generation.Model,
		}), nil
	}
}

// newStore builds the vector store backend selected by the config.
func newStore(cfg *config.Config, dimensions int) (driven.VectorStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return memory.NewStore(dimensions)
	default:
		return sqlite.NewStore(cfg.Store.Path)
	}
}
