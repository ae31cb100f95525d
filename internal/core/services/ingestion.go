package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
	"github.com/folio-labs/folio-cli/internal/logger"
	"github.com/folio-labs/folio-cli/internal/splitter"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestService = (*IngestionService)(nil)

// IngestionService runs the document ingestion pipeline:
// split -> embed -> store. Each invocation owns its own transient state;
// concurrent ingestions are independent.
type IngestionService struct {
	splitter         *splitter.Splitter
	embeddingService driven.EmbeddingService
	vectorStore      driven.VectorStore
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	split *splitter.Splitter,
	embeddingService driven.EmbeddingService,
	vectorStore driven.VectorStore,
) *IngestionService {
	return &IngestionService{
		splitter:         split,
		embeddingService: embeddingService,
		vectorStore:      vectorStore,
	}
}

// Ingest splits text, embeds all segments in one batched call, and stores
// the resulting records in one call. Every step is a hard sequence point:
// a failure aborts the remaining steps and surfaces to the caller.
//
// Each ingestion mints a fresh document identity. Re-ingesting the same
// content therefore duplicates it under a new identity; callers that want
// replace semantics delete the old identity first.
func (s *IngestionService) Ingest(ctx context.Context, text, filename, collection string) (*domain.IngestResult, error) {
	documentID := uuid.New().String()

	logger.Section("Ingestion")
	logger.Debug("Document: %s (%s), collection: %q", documentID, filename, collection)

	segments := s.splitter.Split(text)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoContent, filename)
	}
	logger.Debug("Split into %d segments", len(segments))

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Content
	}

	// One batched call for the whole document.
	embedDone := logger.Timing("embed segments")
	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	embedDone()
	if err != nil {
		return nil, fmt.Errorf("embed segments: %w", err)
	}
	if len(vectors) != len(segments) {
		return nil, fmt.Errorf("embed segments: got %d vectors for %d segments", len(vectors), len(segments))
	}

	records := make([]driven.Record, len(segments))
	for i, seg := range segments {
		records[i] = driven.Record{
			ID:     fmt.Sprintf("%s_segment_%d", documentID, seg.Ordinal),
			Text:   seg.Content,
			Vector: vectors[i],
			Attributes: map[string]any{
				"document_id": documentID,
				"filename":    filename,
				"position":    seg.Ordinal,
			},
		}
	}

	stored, err := s.vectorStore.Store(ctx, collection, records)
	if err != nil {
		return nil, fmt.Errorf("store segments: %w", err)
	}
	if stored != len(segments) {
		return nil, fmt.Errorf("store segments: stored %d of %d", stored, len(segments))
	}
	logger.Info("Stored %d segments for %q in %q", stored, filename, collection)

	return &domain.IngestResult{
		DocumentID:   documentID,
		Filename:     filename,
		SegmentCount: stored,
		Collection:   collection,
		Status:       "success",
	}, nil
}

// Delete removes all segments of a document from the collection.
// Deletion is idempotent: an absent document reports zero deleted.
func (s *IngestionService) Delete(ctx context.Context, documentID, collection string) (int, error) {
	deleted, err := s.vectorStore.DeleteByDocument(ctx, collection, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete document: %w", err)
	}
	logger.Debug("Deleted %d segments for document %s", deleted, documentID)
	return deleted, nil
}
