package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidChunking indicates malformed splitter configuration
	// (overlap >= size, or a non-positive value). It is raised at
	// construction time, never per call.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrNoContent indicates ingestion received text that produced no
	// segments. The request is rejected rather than silently storing nothing.
	ErrNoContent = errors.New("no content to ingest")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or failed to respond.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation service is not configured
	// or failed to respond.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrStoreUnavailable indicates the vector store is not configured
	// or failed to respond.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)
