package domain

import "context"

// Narrator turns a prompt into a chat model completion. Implemented by the
// OpenAI-compatible transport and consumed by the elaboration use case.
type Narrator interface {
	Complete(ctx context.Context, p Prompt) (Completion, error)
}

// HealthChecker verifies LLM provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Prompt is a single-turn chat request.
type Prompt struct {
	System string
	User   string
}

// Completion carries the generated text and token usage through the decorator chain.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
