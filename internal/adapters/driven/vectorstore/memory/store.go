// Package memory provides an in-process vector store backed by vecgo.
//
// Nothing is persisted; the store lives and dies with the process. It is
// the right backend for one-shot sessions, tests, and benchmarks where
// SQLite durability is not worth the disk round trips. Each collection
// gets its own exact-search (flat) cosine index, which keeps recall at
// 100% for the corpus sizes a local assistant handles.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/vecgo"
	"github.com/hupe1980/vecgo/metadata"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// segment is the payload stored alongside each vector.
type segment struct {
	RecordID   string
	DocumentID string
	Text       string
	Attributes map[string]any
}

// collection wraps one vecgo index with the bookkeeping needed for
// upserts and delete-by-document.
type collection struct {
	db         *vecgo.Vecgo[segment]
	byRecordID map[string]uint64
	byDocument map[string]map[uint64]string // vecgo id -> record id
}

// Store is an in-memory vector store with per-collection indexes.
type Store struct {
	mu          sync.RWMutex
	dimensions  int
	collections map[string]*collection
}

// NewStore creates an in-memory store for vectors of the given dimension.
func NewStore(dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("memory: dimensions must be positive, got %d", dimensions)
	}
	return &Store{
		dimensions:  dimensions,
		collections: make(map[string]*collection),
	}, nil
}

// collectionFor returns the named collection, creating it on first write.
func (s *Store) collectionFor(name string) (*collection, error) {
	if col, ok := s.collections[name]; ok {
		return col, nil
	}

	db, err := vecgo.Flat[segment](s.dimensions).Cosine().Build()
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	col := &collection{
		db:         db,
		byRecordID: make(map[string]uint64),
		byDocument: make(map[string]map[uint64]string),
	}
	s.collections[name] = col
	return col, nil
}

// Store upserts records into the collection and returns the number stored.
// A record whose ID already exists replaces the previous entry.
func (s *Store) Store(ctx context.Context, name string, records []driven.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collectionFor(name)
	if err != nil {
		return 0, err
	}

	// Drop existing entries for upserted IDs before reinserting.
	for _, rec := range records {
		if oldID, ok := col.byRecordID[rec.ID]; ok {
			if err := col.removeLocked(ctx, oldID); err != nil {
				return 0, fmt.Errorf("replacing segment %s: %w", rec.ID, err)
			}
		}
	}

	items := make([]vecgo.VectorWithData[segment], len(records))
	for i, rec := range records {
		documentID, _ := rec.Attributes["document_id"].(string)
		items[i] = vecgo.VectorWithData[segment]{
			Vector: rec.Vector,
			Data: segment{
				RecordID:   rec.ID,
				DocumentID: documentID,
				Text:       rec.Text,
				Attributes: rec.Attributes,
			},
			Metadata: metadata.Metadata{
				"document_id": metadata.String(documentID),
			},
		}
	}

	result := col.db.BatchInsert(ctx, items)
	for i, err := range result.Errors {
		if err != nil {
			return 0, fmt.Errorf("inserting segment %s: %w", records[i].ID, err)
		}
	}
	if len(result.IDs) != len(records) {
		return 0, fmt.Errorf("inserting segments: got %d ids for %d records", len(result.IDs), len(records))
	}

	for i, rec := range records {
		id := result.IDs[i]
		col.byRecordID[rec.ID] = id

		documentID := items[i].Data.DocumentID
		if col.byDocument[documentID] == nil {
			col.byDocument[documentID] = make(map[uint64]string)
		}
		col.byDocument[documentID][id] = rec.ID
	}

	return len(records), nil
}

// removeLocked deletes one vecgo entry and its bookkeeping.
// Caller must hold the write lock.
func (c *collection) removeLocked(ctx context.Context, id uint64) error {
	data, err := c.db.Get(id)
	if err != nil {
		return err
	}
	if err := c.db.Delete(ctx, id); err != nil {
		return err
	}
	delete(c.byRecordID, data.RecordID)
	if ids := c.byDocument[data.DocumentID]; ids != nil {
		delete(ids, id)
		if len(ids) == 0 {
			delete(c.byDocument, data.DocumentID)
		}
	}
	return nil
}

// Search returns the topK nearest segments by cosine distance, ascending.
// An absent or empty collection yields an empty result without error.
func (s *Store) Search(ctx context.Context, name string, query []float32, topK int) ([]driven.Hit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok || len(col.byRecordID) == 0 {
		return nil, nil
	}

	results, err := col.db.KNNSearch(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	hits := make([]driven.Hit, len(results))
	for i, r := range results {
		hits[i] = driven.Hit{
			Text:       r.Data.Text,
			Distance:   float64(r.Distance),
			Attributes: r.Data.Attributes,
		}
	}
	return hits, nil
}

// DeleteByDocument removes all segments of a document from the collection
// and returns the number deleted.
func (s *Store) DeleteByDocument(ctx context.Context, name, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		return 0, nil
	}

	ids := col.byDocument[documentID]
	deleted := 0
	for id := range ids {
		if err := col.removeLocked(ctx, id); err != nil {
			return deleted, fmt.Errorf("deleting segment: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

// Collections lists collections with their segment counts, sorted by name.
func (s *Store) Collections(ctx context.Context) ([]domain.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]domain.CollectionInfo, 0, len(s.collections))
	for name, col := range s.collections {
		if len(col.byRecordID) == 0 {
			continue
		}
		infos = append(infos, domain.CollectionInfo{
			Name:         name,
			SegmentCount: len(col.byRecordID),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// Indexes are garbage collected with the store
	return nil
}
