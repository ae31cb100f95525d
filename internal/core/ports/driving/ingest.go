package driving

import (
	"context"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// IngestService runs the document ingestion pipeline.
type IngestService interface {
	// Ingest splits text into segments, embeds them in one batch, and
	// stores them in the collection. Each call mints a fresh document
	// identity; re-ingesting the same content duplicates rather than
	// overwrites. Text that yields no segments is rejected with
	// domain.ErrNoContent.
	Ingest(ctx context.Context, text, filename, collection string) (*domain.IngestResult, error)

	// Delete removes all segments of a document from the collection and
	// returns the number removed. Deletion is idempotent; an absent
	// document reports zero.
	Delete(ctx context.Context, documentID, collection string) (int, error)
}
