// Package catalog owns the published corpus: it builds the vector space and
// swaps it in atomically so readers see the old or the new version, never a mix.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
	"github.com/kailas-cloud/thesisrec/internal/domain/vectorspace"
	"github.com/kailas-cloud/thesisrec/internal/ingest"
	"github.com/kailas-cloud/thesisrec/internal/metrics"
)

// Service publishes corpus snapshots.
type Service struct {
	source Source
	repo   Repository
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex // serializes writers
	current atomic.Pointer[Snapshot]
}

// New creates a catalog service. source and repo can be nil.
func New(source Source, repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, repo: repo, logger: logger, now: time.Now}
}

// Current returns the published snapshot.
func (s *Service) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrCorpusNotLoaded
	}
	return snap, nil
}

// Loaded reports whether a snapshot has been published.
func (s *Service) Loaded() bool { return s.current.Load() != nil }

// Subject returns a subject of the published snapshot.
func (s *Service) Subject(id string) (subject.Subject, error) {
	snap, err := s.Current()
	if err != nil {
		return subject.Subject{}, err
	}
	sub, ok := snap.Subject(id)
	if !ok {
		return subject.Subject{}, domain.ErrNotFound
	}
	return sub, nil
}

// Load builds a vector space over subjects, persists them when a repository
// is configured and publishes the result. Persistence failures are logged;
// the in-memory snapshot is still published.
func (s *Service) Load(ctx context.Context, subjects []subject.Subject) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.build(subjects)
	if err != nil {
		metrics.CorpusReloadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	snap.version = s.nextVersion()
	if s.repo != nil {
		v, err := s.repo.SaveAll(ctx, subjects)
		if err != nil {
			s.logger.Warn("Corpus persistence failed, serving in-memory snapshot",
				zap.Int("subjects", len(subjects)),
				zap.Error(err),
			)
		} else {
			// The store counter lags the in-memory one after failed saves.
			snap.version = max(v, snap.version)
		}
	}

	s.publish(snap)
	return snap, nil
}

// Reload reads the source again and publishes the new corpus.
func (s *Service) Reload(ctx context.Context) (*Snapshot, ingest.Batch, error) {
	if s.source == nil {
		return nil, ingest.Batch{}, fmt.Errorf("corpus source: %w", domain.ErrNotConfigured)
	}
	batch, err := s.source.Load(ctx)
	recordIngest(batch)
	if err != nil {
		metrics.CorpusReloadsTotal.WithLabelValues("error").Inc()
		return nil, batch, fmt.Errorf("load source: %w", err)
	}

	s.logger.Info("Corpus ingested",
		zap.Int("subjects", len(batch.Subjects)),
		zap.Int("dropped", batch.Dropped),
		zap.Int("skipped", batch.Skipped),
		zap.Int("duplicates", batch.Duplicates),
	)

	snap, err := s.Load(ctx, batch.Subjects)
	if err != nil {
		return nil, batch, err
	}
	return snap, batch, nil
}

// Restore publishes the corpus last saved to the repository without saving it again.
func (s *Service) Restore(ctx context.Context) (*Snapshot, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("corpus repository: %w", domain.ErrNotConfigured)
	}
	subjects, version, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore corpus: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.build(subjects)
	if err != nil {
		metrics.CorpusReloadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	snap.version = max(version, s.nextVersion())
	s.publish(snap)
	return snap, nil
}

// Bootstrap publishes the first snapshot: from the source, or from the
// repository when the source is unavailable.
func (s *Service) Bootstrap(ctx context.Context) (*Snapshot, error) {
	snap, _, srcErr := s.Reload(ctx)
	if srcErr == nil {
		return snap, nil
	}
	if s.repo == nil {
		return nil, srcErr
	}

	s.logger.Warn("Corpus source unavailable, restoring from store", zap.Error(srcErr))
	snap, err := s.Restore(ctx)
	if err != nil {
		return nil, errors.Join(srcErr, err)
	}
	return snap, nil
}

func (s *Service) build(subjects []subject.Subject) (*Snapshot, error) {
	subjects = slices.Clone(subjects)
	start := s.now()
	space, err := vectorspace.Build(subjects)
	if err != nil {
		return nil, fmt.Errorf("build vector space: %w", err)
	}
	snap := &Snapshot{
		subjects:      subjects,
		space:         space,
		technicalTags: ingest.TechnicalTags(subjects),
		builtAt:       s.now(),
	}
	s.logger.Debug("Vector space built",
		zap.Int("subjects", space.Len()),
		zap.Int("vocabulary", space.Dim()),
		zap.Duration("duration", snap.builtAt.Sub(start)),
	)
	return snap, nil
}

func (s *Service) nextVersion() int64 {
	if prev := s.current.Load(); prev != nil {
		return prev.version + 1
	}
	return 1
}

// publish must be called with mu held.
func (s *Service) publish(snap *Snapshot) {
	s.current.Store(snap)
	metrics.CorpusReloadsTotal.WithLabelValues("ok").Inc()
	metrics.CorpusSubjects.Set(float64(snap.Len()))
	metrics.VocabularyTerms.Set(float64(snap.space.Dim()))
	s.logger.Info("Corpus published",
		zap.Int64("version", snap.version),
		zap.Int("subjects", snap.Len()),
		zap.Int("vocabulary", snap.space.Dim()),
	)
}

func recordIngest(b ingest.Batch) {
	metrics.IngestRecordsTotal.WithLabelValues("accepted").Add(float64(len(b.Subjects)))
	metrics.IngestRecordsTotal.WithLabelValues("dropped").Add(float64(b.Dropped))
	metrics.IngestRecordsTotal.WithLabelValues("skipped").Add(float64(b.Skipped))
	metrics.IngestRecordsTotal.WithLabelValues("duplicate").Add(float64(b.Duplicates))
}
