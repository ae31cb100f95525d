package driven

import (
	"context"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// Record is one (id, text, vector, attributes) tuple persisted by a store.
type Record struct {
	// ID is the record identity. Storing a duplicate ID overwrites
	// the previous record (upsert semantics).
	ID string

	// Text is the segment content.
	Text string

	// Vector is the segment embedding.
	Vector []float32

	// Attributes carries provenance (document_id, filename, position).
	Attributes map[string]any
}

// Hit is a similarity search result.
type Hit struct {
	// Text is the stored segment content.
	Text string

	// Distance is the cosine distance to the query vector (0 = identical).
	// Consumers convert to similarity as 1 - distance.
	Distance float64

	// Attributes are the stored provenance attributes.
	Attributes map[string]any
}

// VectorStore persists segment vectors and supports similarity search.
// Collections are isolation boundaries between unrelated document sets;
// a collection is created on first write.
type VectorStore interface {
	// Store upserts records into the collection in one call and returns
	// the number stored.
	Store(ctx context.Context, collection string, records []Record) (int, error)

	// Search returns the topK nearest records ordered by ascending distance.
	// It returns fewer than topK when the collection holds fewer records,
	// and an empty slice without error for an empty or absent collection.
	Search(ctx context.Context, collection string, query []float32, topK int) ([]Hit, error)

	// DeleteByDocument removes all records whose document_id attribute
	// matches and returns the number deleted. Deleting an absent document
	// is not an error; it reports zero.
	DeleteByDocument(ctx context.Context, collection, documentID string) (int, error)

	// Collections lists stored collections with their record counts.
	Collections(ctx context.Context) ([]domain.CollectionInfo, error)

	// Close releases resources.
	Close() error
}
