package services

import (
	"context"
	"errors"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	dimensions int
	embedErr   error
	batchErr   error
	batchCalls int
	embedCalls int
	lastBatch  []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	m.lastBatch = texts
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vectorFor(text)
	}
	return vectors, nil
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	dims := m.dimensions
	if dims == 0 {
		dims = 4
	}
	vec := make([]float32, dims)
	for i, r := range text {
		vec[i%dims] += float32(r)
	}
	return vec
}

func (m *mockEmbeddingService) Dimensions() int              { return m.dimensions }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embedder" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	hits        []driven.Hit
	storeErr    error
	searchErr   error
	deleteErr   error
	deleted     int
	storeCalls  int
	stored      []driven.Record
	lastQueryK  int
	collections []domain.CollectionInfo
}

func (m *mockVectorStore) Store(_ context.Context, _ string, records []driven.Record) (int, error) {
	m.storeCalls++
	if m.storeErr != nil {
		return 0, m.storeErr
	}
	m.stored = append(m.stored, records...)
	return len(records), nil
}

func (m *mockVectorStore) Search(_ context.Context, _ string, _ []float32, topK int) ([]driven.Hit, error) {
	m.lastQueryK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:topK], nil
}

func (m *mockVectorStore) DeleteByDocument(_ context.Context, _, _ string) (int, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	return m.deleted, nil
}

func (m *mockVectorStore) Collections(_ context.Context) ([]domain.CollectionInfo, error) {
	return m.collections, nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockGenerationService implements driven.GenerationService for testing.
type mockGenerationService struct {
	answer        string
	fragments     []string
	generateErr   error
	streamErr     error
	midStreamErr  error
	generateCalls int
	streamCalls   int
	lastQuestion  string
	lastContexts  []string
}

func (m *mockGenerationService) Generate(_ context.Context, question string, contexts []string) (string, error) {
	m.generateCalls++
	m.lastQuestion = question
	m.lastContexts = contexts
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.answer, nil
}

func (m *mockGenerationService) GenerateStream(ctx context.Context, question string, contexts []string) (<-chan driven.Fragment, error) {
	m.streamCalls++
	m.lastQuestion = question
	m.lastContexts = contexts
	if m.streamErr != nil {
		return nil, m.streamErr
	}

	out := make(chan driven.Fragment)
	go func() {
		defer close(out)
		for _, f := range m.fragments {
			select {
			case <-ctx.Done():
				return
			case out <- driven.Fragment{Content: f}:
			}
		}
		if m.midStreamErr != nil {
			select {
			case <-ctx.Done():
			case out <- driven.Fragment{Err: m.midStreamErr}:
			}
		}
	}()
	return out, nil
}

func (m *mockGenerationService) ModelName() string            { return "mock-generator" }
func (m *mockGenerationService) Ping(_ context.Context) error { return nil }
func (m *mockGenerationService) Close() error                 { return nil }

var errBoom = errors.New("boom")
