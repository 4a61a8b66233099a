package feedback

import (
	"context"

	"github.com/kailas-cloud/thesisrec/internal/domain/feedback"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

// Repository persists ratings.
type Repository interface {
	Save(ctx context.Context, f feedback.Feedback) error
	ListBySubject(ctx context.Context, subjectID string) ([]feedback.Feedback, error)
}

// Catalog resolves subjects being rated.
type Catalog interface {
	Subject(id string) (subject.Subject, error)
}
