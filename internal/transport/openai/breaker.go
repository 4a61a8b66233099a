package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/metrics"
)

// BreakerConfig configures CircuitNarrator. Failures is the number of
// consecutive provider failures that open the circuit; OpenTimeout is how
// long it stays open before one probe is let through.
type BreakerConfig struct {
	Provider    string
	Failures    int
	OpenTimeout time.Duration
	Logger      *zap.Logger
}

// CircuitNarrator stops calling a failing provider for a while instead of
// making every elaboration wait for its timeout.
type CircuitNarrator struct {
	inner    domain.Narrator
	cb       *gobreaker.CircuitBreaker[domain.Completion]
	provider string
}

var _ domain.Narrator = (*CircuitNarrator)(nil)

// NewCircuitNarrator wraps inner with a circuit breaker.
func NewCircuitNarrator(inner domain.Narrator, cfg BreakerConfig) *CircuitNarrator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	failures := uint32(5)
	if cfg.Failures > 0 {
		failures = uint32(cfg.Failures) //nolint:gosec // validated positive
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	metrics.LLMBreakerState.WithLabelValues(cfg.Provider).Set(0)

	cb := gobreaker.NewCircuitBreaker[domain.Completion](gobreaker.Settings{
		Name:        cfg.Provider,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		// The caller giving up says nothing about the provider.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm circuit state change",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.LLMBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &CircuitNarrator{inner: inner, cb: cb, provider: cfg.Provider}
}

// Complete runs the inner narrator unless the circuit is open.
func (n *CircuitNarrator) Complete(ctx context.Context, p domain.Prompt) (domain.Completion, error) {
	c, err := n.cb.Execute(func() (domain.Completion, error) {
		return n.inner.Complete(ctx, p)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.LLMBreakerRejectedTotal.WithLabelValues(n.provider).Inc()
		return domain.Completion{}, fmt.Errorf("%w: %w", domain.ErrLLMProviderError, err)
	}
	return c, err
}

// State reports the current circuit state ("closed", "half-open", "open").
func (n *CircuitNarrator) State() string {
	return n.cb.State().String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
