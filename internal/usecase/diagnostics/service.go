// Package diagnostics computes corpus aggregates consumed by charts.
package diagnostics

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/projection"
	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
	"github.com/kailas-cloud/thesisrec/internal/domain/stats"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
	"github.com/kailas-cloud/thesisrec/internal/logger"
)

// Config tunes the aggregates.
type Config struct {
	// ExcludedTags are skipped by TagFrequency. Empty means the program tags.
	ExcludedTags []string
	// TopTags is the default TagFrequency size.
	TopTags int
}

// Projection is a 2-D PCA of a subject subset.
type Projection struct {
	Subjects []subject.Subject
	Result   projection.Result
}

// Service computes diagnostics over the published snapshot.
type Service struct {
	catalog  Catalog
	excluded []string
	topTags  int
}

// New creates a diagnostics service.
func New(c Catalog, cfg Config) *Service {
	if len(cfg.ExcludedTags) == 0 {
		cfg.ExcludedTags = program.Tags()
	}
	if cfg.TopTags <= 0 {
		cfg.TopTags = stats.DefaultTopTags
	}
	return &Service{catalog: c, excluded: cfg.ExcludedTags, topTags: cfg.TopTags}
}

// TagFrequency returns the k most frequent tags of program p. k <= 0 uses the default.
func (s *Service) TagFrequency(p program.Program, k int) ([]stats.TagCount, error) {
	snap, err := s.catalog.Current()
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = s.topTags
	}
	return stats.TagFrequency(snap.Filter(p), s.excluded, k), nil
}

// ProgramDistribution counts subjects per program over the whole corpus.
func (s *Service) ProgramDistribution() ([]stats.ProgramCount, error) {
	snap, err := s.catalog.Current()
	if err != nil {
		return nil, err
	}
	return stats.ProgramDistribution(snap.Subjects()), nil
}

// Projection runs PCA over the vectors of program p. Too little data yields
// an unavailable result, not an error.
func (s *Service) Projection(ctx context.Context, p program.Program) (Projection, error) {
	snap, err := s.catalog.Current()
	if err != nil {
		return Projection{}, err
	}
	space := snap.Space()
	positions := snap.Positions(p)

	rows := make([][]float64, len(positions))
	subjects := make([]subject.Subject, len(positions))
	for k, i := range positions {
		rows[k] = space.Vector(i).Dense()
		subjects[k] = snap.Subjects()[i]
	}

	res := projection.Project(rows)
	if !res.Available() {
		logger.FromContext(ctx).Debug("Projection unavailable",
			zap.String("program", string(p)),
			zap.Int("subjects", len(rows)),
			zap.String("reason", string(res.Reason())),
		)
		return Projection{Result: res}, nil
	}
	return Projection{Subjects: subjects, Result: res}, nil
}

// Similar ranks the subjects closest to subject id, excluding itself.
// Tags shared with the reference subject are highlighted.
func (s *Service) Similar(id string, topN int) ([]recommendation.Item, error) {
	snap, err := s.catalog.Current()
	if err != nil {
		return nil, err
	}
	space := snap.Space()
	pos, ok := space.IndexOf(id)
	if !ok {
		return nil, fmt.Errorf("subject %q: %w", id, domain.ErrNotFound)
	}

	scores, err := space.Row(pos)
	if err != nil {
		return nil, fmt.Errorf("similarity row: %w", err)
	}

	all := snap.Subjects()
	others := make([]string, 0, len(all)-1)
	for i := range all {
		if i != pos {
			others = append(others, all[i].ID())
		}
	}
	terms := make(map[string]struct{})
	for _, t := range all[pos].Tags() {
		terms[t] = struct{}{}
	}

	items, err := recommendation.Rank(scores, all, recommendation.NewCandidates(others...), topN, terms)
	if err != nil {
		return nil, fmt.Errorf("rank similar: %w", err)
	}
	return items, nil
}
