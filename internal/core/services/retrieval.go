package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
	"github.com/folio-labs/folio-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.QueryService = (*RetrievalService)(nil)

// Default product-visible values. Both are configurable; the defaults
// match what the CLI ships with.
const (
	DefaultPreviewLength  = 200
	DefaultFallbackAnswer = "No documents found. Please upload some documents first."
)

// RetrievalService answers questions by embedding the query, searching the
// vector store, and generating a grounded answer. Each invocation owns its
// own transient state; concurrent queries are independent.
type RetrievalService struct {
	embeddingService  driven.EmbeddingService
	vectorStore       driven.VectorStore
	generationService driven.GenerationService
	previewLength     int
	fallbackAnswer    string
}

// RetrievalOption configures the retrieval service.
type RetrievalOption func(*RetrievalService)

// WithPreviewLength sets the rune length at which source previews are
// truncated.
func WithPreviewLength(n int) RetrievalOption {
	return func(s *RetrievalService) {
		if n > 0 {
			s.previewLength = n
		}
	}
}

// WithFallbackAnswer sets the answer returned when a collection holds no
// documents.
func WithFallbackAnswer(answer string) RetrievalOption {
	return func(s *RetrievalService) {
		if answer != "" {
			s.fallbackAnswer = answer
		}
	}
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	embeddingService driven.EmbeddingService,
	vectorStore driven.VectorStore,
	generationService driven.GenerationService,
	opts ...RetrievalOption,
) *RetrievalService {
	s := &RetrievalService{
		embeddingService:  embeddingService,
		vectorStore:       vectorStore,
		generationService: generationService,
		previewLength:     DefaultPreviewLength,
		fallbackAnswer:    DefaultFallbackAnswer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask answers a question in one blocking call.
func (s *RetrievalService) Ask(ctx context.Context, question, collection string, topK int) (*domain.Answer, error) {
	passages, err := s.retrieve(ctx, question, collection, topK)
	if err != nil {
		return nil, err
	}

	if len(passages) == 0 {
		logger.Debug("No passages retrieved, returning fallback answer")
		return &domain.Answer{
			Text:    s.fallbackAnswer,
			Sources: []domain.SourcePreview{},
		}, nil
	}

	answer, err := s.generationService.Generate(ctx, question, passageTexts(passages))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    answer,
		Sources: s.previews(passages),
	}, nil
}

// AskStream answers a question incrementally. The retrieval phase runs
// synchronously so its errors surface as a plain error return; everything
// after is delivered on the returned channel. The channel is unbuffered:
// events are produced only as fast as the consumer reads them and the
// generation service yields fragments.
func (s *RetrievalService) AskStream(ctx context.Context, question, collection string, topK int) (<-chan domain.AnswerEvent, error) {
	passages, err := s.retrieve(ctx, question, collection, topK)
	if err != nil {
		return nil, err
	}

	events := make(chan domain.AnswerEvent)

	if len(passages) == 0 {
		go func() {
			defer close(events)
			if !s.send(ctx, events, domain.AnswerEvent{Type: domain.EventSources, Sources: []domain.SourcePreview{}}) {
				return
			}
			if !s.send(ctx, events, domain.AnswerEvent{Type: domain.EventToken, Token: s.fallbackAnswer}) {
				return
			}
			s.send(ctx, events, domain.AnswerEvent{Type: domain.EventDone})
		}()
		return events, nil
	}

	fragments, err := s.generationService.GenerateStream(ctx, question, passageTexts(passages))
	if err != nil {
		return nil, fmt.Errorf("start generation: %w", err)
	}

	previews := s.previews(passages)

	go func() {
		defer close(events)

		// Sources go out before any generation output so a consumer can
		// render provenance while the answer is still being produced.
		if !s.send(ctx, events, domain.AnswerEvent{Type: domain.EventSources, Sources: previews}) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				// Cancelled: stop without a completion marker.
				return
			case frag, ok := <-fragments:
				if !ok {
					// The fragment channel also closes when the
					// generation call is cancelled; only a stream that
					// ran to completion gets the marker.
					if ctx.Err() == nil {
						s.send(ctx, events, domain.AnswerEvent{Type: domain.EventDone})
					}
					return
				}
				if frag.Err != nil {
					// Failed mid-stream: an explicit error event, no
					// completion marker.
					s.send(ctx, events, domain.AnswerEvent{Type: domain.EventError, Err: frag.Err.Error()})
					return
				}
				if !s.send(ctx, events, domain.AnswerEvent{Type: domain.EventToken, Token: frag.Content}) {
					return
				}
			}
		}
	}()

	return events, nil
}

// send delivers one event unless the context is cancelled first.
func (s *RetrievalService) send(ctx context.Context, events chan<- domain.AnswerEvent, ev domain.AnswerEvent) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case events <- ev:
		return true
	}
}

// retrieve runs the shared retrieval phase: embed the question, search the
// collection, convert distances to similarities, and order by descending
// relevance.
func (s *RetrievalService) retrieve(ctx context.Context, question, collection string, topK int) ([]domain.Passage, error) {
	logger.Section("Retrieval")
	logger.Debug("Question: %q, collection: %q, topK: %d", question, collection, topK)

	queryVector, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	searchDone := logger.Timing("similarity search")
	hits, err := s.vectorStore.Search(ctx, collection, queryVector, topK)
	searchDone()
	if err != nil {
		return nil, fmt.Errorf("search collection: %w", err)
	}
	logger.Debug("Retrieved %d passages", len(hits))

	passages := make([]domain.Passage, len(hits))
	for i, hit := range hits {
		passages[i] = domain.Passage{
			Text:       hit.Text,
			Score:      roundScore(1.0 - hit.Distance),
			Attributes: hit.Attributes,
		}
	}

	// The store contract orders by ascending distance, but the
	// similarity ordering is this service's contract, so enforce it.
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})

	return passages, nil
}

// previews builds consumer-facing passage summaries: truncated text,
// rounded score, attributes echoed.
func (s *RetrievalService) previews(passages []domain.Passage) []domain.SourcePreview {
	previews := make([]domain.SourcePreview, len(passages))
	for i, p := range passages {
		previews[i] = domain.SourcePreview{
			Text:       truncate(p.Text, s.previewLength),
			Score:      p.Score,
			Attributes: p.Attributes,
		}
	}
	return previews
}

func passageTexts(passages []domain.Passage) []string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return texts
}

// truncate shortens s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// roundScore rounds a similarity to 4 decimal places.
func roundScore(v float64) float64 {
	return math.Round(v*10000) / 10000
}
