package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCorpus signals that no valid subject survived ingestion.
	// Nothing can be recommended without at least one subject.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrCorpusNotLoaded signals that no vector space has been published yet.
	ErrCorpusNotLoaded = errors.New("corpus not loaded")
	// ErrDimensionMismatch signals vectors built against different vocabularies.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrUnknownSubject signals a candidate subset that references subjects outside the vector space.
	ErrUnknownSubject = errors.New("unknown subject")
	// ErrInvalidQuery signals malformed query input (bad weight, empty term).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrValidation signals malformed input outside queries (usernames, ratings).
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials signals a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLLMProviderError signals a conversational model failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrLLMQuotaExceeded signals an exhausted LLM token budget.
	ErrLLMQuotaExceeded = errors.New("llm token quota exceeded")
	// ErrNotConfigured signals an optional collaborator that is disabled in config.
	ErrNotConfigured = errors.New("not configured")
)
