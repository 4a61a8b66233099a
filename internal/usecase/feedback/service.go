// Package feedback records user ratings of recommended subjects.
package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/feedback"
	"github.com/kailas-cloud/thesisrec/internal/logger"
)

// Service submits and aggregates feedback.
type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
}

// New creates a feedback service.
func New(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// Submit stores a rating. Rating the same subject twice overwrites the earlier one.
func (s *Service) Submit(
	ctx context.Context, username, subjectID string, rating int, comment string,
) (feedback.Feedback, error) {
	if _, err := s.catalog.Subject(subjectID); err != nil {
		return feedback.Feedback{}, fmt.Errorf("subject %q: %w", subjectID, err)
	}

	f, err := feedback.New(username, subjectID, rating, comment, s.now().UnixMilli())
	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err := s.repo.Save(ctx, f); err != nil {
		return feedback.Feedback{}, fmt.Errorf("save feedback: %w", err)
	}

	logger.FromContext(ctx).Debug("feedback recorded")
	return f, nil
}

// List returns every rating of a subject, oldest first.
func (s *Service) List(ctx context.Context, subjectID string) ([]feedback.Feedback, error) {
	items, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

// Summary aggregates the ratings of a subject.
func (s *Service) Summary(ctx context.Context, subjectID string) (feedback.Summary, error) {
	if _, err := s.catalog.Subject(subjectID); err != nil {
		return feedback.Summary{}, fmt.Errorf("subject %q: %w", subjectID, err)
	}
	items, err := s.List(ctx, subjectID)
	if err != nil {
		return feedback.Summary{}, err
	}
	return feedback.Summarize(subjectID, items), nil
}
