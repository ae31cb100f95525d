package cli

import (
	"context"
	"strings"

	"github.com/folio-labs/folio-cli/internal/config"
	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
)

// mockIngestService records calls and returns canned results.
type mockIngestService struct {
	ingested    []string
	collections []string
	deleteCount int
	err         error
}

func (m *mockIngestService) Ingest(_ context.Context, text, filename, collection string) (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, filename)
	m.collections = append(m.collections, collection)
	return &domain.IngestResult{
		DocumentID:   "doc-123",
		Filename:     filename,
		SegmentCount: len(strings.Fields(text)),
		Collection:   collection,
		Status:       "success",
	}, nil
}

func (m *mockIngestService) Delete(_ context.Context, documentID, collection string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.deleteCount, nil
}

// mockQueryService returns a fixed answer and a scripted event stream.
type mockQueryService struct {
	answer       *domain.Answer
	events       []domain.AnswerEvent
	err          error
	lastQuestion string
	lastTopK     int
}

func (m *mockQueryService) Ask(_ context.Context, question, collection string, topK int) (*domain.Answer, error) {
	m.lastQuestion = question
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockQueryService) AskStream(_ context.Context, question, collection string, topK int) (<-chan domain.AnswerEvent, error) {
	m.lastQuestion = question
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan domain.AnswerEvent, len(m.events))
	for _, e := range m.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

// mockVectorStore only serves the collections command.
type mockVectorStore struct {
	infos []domain.CollectionInfo
	err   error
}

func (m *mockVectorStore) Store(context.Context, string, []driven.Record) (int, error) {
	return 0, nil
}

func (m *mockVectorStore) Search(context.Context, string, []float32, int) ([]driven.Hit, error) {
	return nil, nil
}

func (m *mockVectorStore) DeleteByDocument(context.Context, string, string) (int, error) {
	return 0, nil
}

func (m *mockVectorStore) Collections(context.Context) ([]domain.CollectionInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.infos, nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockExtractor serves fixed text for supported extensions.
type mockExtractor struct {
	text string
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	return m.text, nil
}

func (m *mockExtractor) Supports(filename string) bool {
	return strings.HasSuffix(filename, ".txt") || strings.HasSuffix(filename, ".md")
}

// setupTestServices wires mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() (mocks struct {
	ingest *mockIngestService
	query  *mockQueryService
}, cleanup func()) {
	oldIngest, oldQuery := ingestService, queryService
	oldStore, oldExtractor, oldConfig := vectorStore, extractor, appConfig

	mocks.ingest = &mockIngestService{deleteCount: 3}
	mocks.query = &mockQueryService{
		answer: &domain.Answer{
			Text: "Refunds are allowed within 30 days.",
			Sources: []domain.SourcePreview{
				{
					Text:       "Refunds allowed within 30 days.",
					Score:      0.9321,
					Attributes: map[string]any{"filename": "policy.txt", "document_id": "doc-123"},
				},
			},
		},
		events: []domain.AnswerEvent{
			{Type: domain.EventSources, Sources: []domain.SourcePreview{
				{Text: "Refunds allowed within 30 days.", Score: 0.9321,
					Attributes: map[string]any{"filename": "policy.txt"}},
			}},
			{Type: domain.EventToken, Token: "Refunds are allowed "},
			{Type: domain.EventToken, Token: "within 30 days."},
			{Type: domain.EventDone},
		},
	}

	ingestService = mocks.ingest
	queryService = mocks.query
	extractor = &mockExtractor{text: "sample document text"}
	appConfig = config.Default()

	return mocks, func() {
		ingestService, queryService = oldIngest, oldQuery
		vectorStore, extractor, appConfig = oldStore, oldExtractor, oldConfig
	}
}
