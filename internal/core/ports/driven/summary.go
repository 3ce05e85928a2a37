package driven

import "context"

// SummaryService generates paper summaries via a language model.
// This is an optional service - when nil, summaries are disabled.
//
// Implementations may include:
//   - OpenAI (gpt-3.5-turbo, gpt-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type SummaryService interface {
	// Summarise creates a summary of the given content, bounded by
	// maxTokens. The content is representative text of one paper.
	Summarise(ctx context.Context, content string, maxTokens int) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
