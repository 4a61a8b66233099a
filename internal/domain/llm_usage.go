package domain

import "context"

type llmUsageKey struct{}

// LLMUsage collects token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after the completion; the handler reads it for response headers.
type LLMUsage struct {
	TotalTokens int
	Used        bool // true if the model was called, even when it reported 0 tokens
}

// NewContextWithUsage returns a context with a usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *LLMUsage) {
	u := &LLMUsage{}
	return context.WithValue(ctx, llmUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *LLMUsage {
	u, _ := ctx.Value(llmUsageKey{}).(*LLMUsage)
	return u
}

// AddTokens records consumed tokens. Safe on a nil collector.
func (u *LLMUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Used = true
	}
}
