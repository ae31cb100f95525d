package driving

import (
	"context"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// QueryService answers natural-language questions against a collection.
type QueryService interface {
	// Ask retrieves the topK most relevant passages and generates a
	// grounded answer in one blocking call. On an empty collection it
	// returns the configured fallback answer with no sources and never
	// invokes generation.
	Ask(ctx context.Context, question, collection string, topK int) (*domain.Answer, error)

	// AskStream answers incrementally. Retrieval errors are returned
	// synchronously; afterwards the channel delivers exactly one
	// domain.EventSources first, zero or more domain.EventToken in
	// generation order, and exactly one domain.EventDone last on success.
	// A stream that closes without EventDone was cancelled or failed.
	AskStream(ctx context.Context, question, collection string, topK int) (<-chan domain.AnswerEvent, error)
}
