package mcp

import (
	"context"
	"strings"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer       *domain.Answer
	err          error
	lastQuestion string
	lastTopK     int
	lastColl     string
}

func (m *mockQueryService) Ask(
	_ context.Context,
	question, collection string,
	topK int,
) (*domain.Answer, error) {
	m.lastQuestion = question
	m.lastColl = collection
	m.lastTopK = topK
	return m.answer, m.err
}

func (m *mockQueryService) AskStream(
	_ context.Context,
	_, _ string,
	_ int,
) (<-chan domain.AnswerEvent, error) {
	ch := make(chan domain.AnswerEvent)
	close(ch)
	return ch, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	deleted  int
	err      error
	lastText string
	lastColl string
	lastDoc  string
}

func (m *mockIngestService) Ingest(
	_ context.Context,
	text, filename, collection string,
) (*domain.IngestResult, error) {
	m.lastText = text
	m.lastColl = collection
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestResult{
		DocumentID:   "doc-123",
		Filename:     filename,
		SegmentCount: len(strings.Fields(text)),
		Collection:   collection,
		Status:       "success",
	}, nil
}

func (m *mockIngestService) Delete(
	_ context.Context,
	documentID, collection string,
) (int, error) {
	m.lastDoc = documentID
	m.lastColl = collection
	return m.deleted, m.err
}

// mockVectorStore is a mock implementation of driven.VectorStore.
type mockVectorStore struct {
	infos []domain.CollectionInfo
	err   error
}

func (m *mockVectorStore) Store(_ context.Context, _ string, records []driven.Record) (int, error) {
	return len(records), m.err
}

func (m *mockVectorStore) Search(_ context.Context, _ string, _ []float32, _ int) ([]driven.Hit, error) {
	return nil, m.err
}

func (m *mockVectorStore) DeleteByDocument(_ context.Context, _, _ string) (int, error) {
	return 0, m.err
}

func (m *mockVectorStore) Collections(_ context.Context) ([]domain.CollectionInfo, error) {
	return m.infos, m.err
}

func (m *mockVectorStore) Close() error { return nil }

// mockExtractor is a mock implementation of driven.TextExtractor.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (string, error) {
	return m.text, m.err
}

func (m *mockExtractor) Supports(filename string) bool {
	return strings.HasSuffix(filename, ".txt") || strings.HasSuffix(filename, ".md")
}
