package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// LLMChecker checks the chat model provider.
type LLMChecker interface {
	HealthCheck(ctx context.Context) error
}

// CorpusChecker reports whether a corpus snapshot has been published.
type CorpusChecker interface {
	Loaded() bool
}
