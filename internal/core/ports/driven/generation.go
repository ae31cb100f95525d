package driven

import "context"

// Fragment is one incremental piece of a streamed answer.
type Fragment struct {
	// Content is the answer fragment text.
	Content string

	// Err reports a terminal stream failure. When set, Content is empty
	// and no further fragments follow.
	Err error
}

// GenerationService produces a grounded answer from a question and ordered
// context passages.
//
// Implementations may include:
//   - Ollama (llama3.2, mistral)
//   - OpenAI (gpt-4o, gpt-4o-mini)
type GenerationService interface {
	// Generate produces the complete answer in one call.
	Generate(ctx context.Context, question string, contexts []string) (string, error)

	// GenerateStream produces the answer as a finite sequence of fragments.
	// The returned channel is closed when generation finishes or fails;
	// a failure is delivered as a final Fragment with Err set. Each call
	// produces one fresh stream; streams are not restartable. Cancelling
	// ctx stops fragment production promptly.
	GenerateStream(ctx context.Context, question string, contexts []string) (<-chan Fragment, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
