package catalog

import (
	"context"

	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
	"github.com/kailas-cloud/thesisrec/internal/ingest"
)

// Source produces a normalized corpus (CSV file, upload).
type Source interface {
	Load(ctx context.Context) (ingest.Batch, error)
}

// Repository persists the last published corpus.
type Repository interface {
	SaveAll(ctx context.Context, subjects []subject.Subject) (int64, error)
	LoadAll(ctx context.Context) ([]subject.Subject, int64, error)
}
