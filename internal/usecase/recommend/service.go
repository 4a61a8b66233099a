// Package recommend turns a query into a ranked recommendation list.
package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/query"
	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
	"github.com/kailas-cloud/thesisrec/internal/domain/vectorspace"
	"github.com/kailas-cloud/thesisrec/internal/logger"
	"github.com/kailas-cloud/thesisrec/internal/metrics"
)

// Request is a recommendation query with its program filter.
type Request struct {
	Query   query.Query
	Program program.Program
	TopN    int
}

// Service ranks subjects of the published snapshot.
type Service struct {
	catalog Catalog
	topN    int
}

// New creates a recommendation service. defaultTopN <= 0 uses recommendation.DefaultTopN.
func New(c Catalog, defaultTopN int) *Service {
	if defaultTopN <= 0 {
		defaultTopN = recommendation.DefaultTopN
	}
	return &Service{catalog: c, topN: defaultTopN}
}

// Recommend scores the query against the full corpus, then keeps the
// requested program. Empty and out-of-vocabulary queries are results, not errors.
func (s *Service) Recommend(ctx context.Context, req Request) (recommendation.Result, error) {
	start := time.Now()
	mode := string(req.Query.Mode())

	res, err := s.recommend(req)
	metrics.RecommendationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case res.IsEmpty():
		outcome = string(res.Reason())
	}
	metrics.RecommendationsTotal.WithLabelValues(mode, outcome).Inc()

	if err != nil {
		return recommendation.Result{}, err
	}
	logger.FromContext(ctx).Debug("Recommendation computed",
		zap.String("mode", mode),
		zap.String("program", string(req.Program)),
		zap.Int("results", res.Len()),
		zap.String("outcome", outcome),
	)
	return res, nil
}

func (s *Service) recommend(req Request) (recommendation.Result, error) {
	if req.Program != program.Any && !req.Program.IsValid() {
		return recommendation.Result{}, fmt.Errorf("%w: unknown program %q", domain.ErrInvalidQuery, req.Program)
	}
	topN := req.TopN
	if topN <= 0 {
		topN = s.topN
	}
	topN = min(topN, recommendation.MaxTopN)

	snap, err := s.catalog.Current()
	if err != nil {
		return recommendation.Result{}, err
	}

	q := req.Query
	if q.IsEmpty() {
		return recommendation.Empty(q.Text(), recommendation.ReasonEmptyQuery), nil
	}

	space := snap.Space()
	vec, status := space.Vectorize(q.Document())
	switch status {
	case vectorspace.Empty:
		return recommendation.Empty(q.Text(), recommendation.ReasonEmptyQuery), nil
	case vectorspace.OutOfVocabulary:
		return recommendation.Empty(q.Text(), recommendation.ReasonOutOfVocabulary), nil
	}

	scores, err := space.Scores(vec)
	if err != nil {
		return recommendation.Result{}, fmt.Errorf("score query: %w", err)
	}
	items, err := recommendation.Rank(scores, snap.Subjects(), snap.Candidates(req.Program), topN, q.MatchTerms())
	if err != nil {
		return recommendation.Result{}, fmt.Errorf("rank: %w", err)
	}
	return recommendation.NewResult(q.Text(), items), nil
}
