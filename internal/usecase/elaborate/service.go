// Package elaborate asks a chat model to comment on ranked subjects. It only
// consumes recommendation results; it never classifies intent.
package elaborate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
	"github.com/kailas-cloud/thesisrec/internal/metrics"
)

// Kind selects the prompt.
type Kind string

const (
	// KindAnalysis comments on the existing subjects.
	KindAnalysis Kind = "analysis"
	// KindIdeas proposes new subjects inspired by the existing ones.
	KindIdeas Kind = "ideas"
)

// MaxSubjects is how many top results go into a prompt.
const MaxSubjects = 3

// Elaboration is the model's answer about a result.
type Elaboration struct {
	Kind       Kind
	Text       string
	SubjectIDs []string
	Tokens     int
}

// Service builds prompts and calls the narrator under a token budget.
type Service struct {
	narrator domain.Narrator
	budget   BudgetChecker
	provider string
	model    string
	logger   *zap.Logger
}

// New creates an elaboration service. narrator and budget can be nil.
func New(narrator domain.Narrator, budget BudgetChecker, provider, model string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{narrator: narrator, budget: budget, provider: provider, model: model, logger: logger}
}

// Enabled reports whether a narrator is configured.
func (s *Service) Enabled() bool { return s.narrator != nil }

// Elaborate comments on the top results. An empty result yields an empty
// elaboration without calling the model.
func (s *Service) Elaborate(
	ctx context.Context, kind Kind, queryText string, res recommendation.Result,
) (Elaboration, error) {
	if s.narrator == nil {
		return Elaboration{}, domain.ErrNotConfigured
	}
	if kind == "" {
		kind = KindAnalysis
	}
	if _, ok := templates[kind]; !ok {
		return Elaboration{}, fmt.Errorf("%w: unknown elaboration kind %q", domain.ErrValidation, kind)
	}
	if res.IsEmpty() {
		return Elaboration{Kind: kind}, nil
	}

	items := res.Top(MaxSubjects)
	prompt, err := buildPrompt(kind, queryText, items)
	if err != nil {
		return Elaboration{}, err
	}

	if s.budget != nil {
		if err := s.budget.Check(ctx); err != nil {
			s.logger.Error("LLM budget exceeded",
				zap.String("provider", s.provider),
				zap.String("model", s.model),
				zap.Error(err),
			)
			return Elaboration{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	c, err := s.narrator.Complete(ctx, prompt)
	duration := time.Since(start)
	if err != nil {
		s.logger.Error("Elaboration request failed",
			zap.String("provider", s.provider),
			zap.String("model", s.model),
			zap.String("kind", string(kind)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return Elaboration{}, fmt.Errorf("complete: %w", err)
	}

	s.recordBudget(c.TotalTokens)
	domain.UsageFromContext(ctx).AddTokens(c.TotalTokens)

	s.logger.Debug("Elaboration completed",
		zap.String("provider", s.provider),
		zap.String("model", s.model),
		zap.String("kind", string(kind)),
		zap.Duration("duration", duration),
		zap.Int("subjects", len(items)),
		zap.Int("total_tokens", c.TotalTokens),
	)

	ids := make([]string, len(items))
	for i := range items {
		sub := items[i].Subject()
		ids[i] = sub.ID()
	}
	return Elaboration{Kind: kind, Text: c.Text, SubjectIDs: ids, Tokens: c.TotalTokens}, nil
}

func (s *Service) recordBudget(totalTokens int) {
	if s.budget == nil || totalTokens <= 0 {
		return
	}
	s.budget.Record(int64(totalTokens))
	remaining := metrics.LLMBudgetTokensRemaining
	remaining.WithLabelValues(s.provider, "daily").Set(float64(s.budget.RemainingDaily()))
	remaining.WithLabelValues(s.provider, "monthly").Set(float64(s.budget.RemainingMonthly()))
}
