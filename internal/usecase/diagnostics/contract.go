package diagnostics

import "github.com/kailas-cloud/thesisrec/internal/usecase/catalog"

// Catalog exposes the published corpus snapshot.
type Catalog interface {
	Current() (*catalog.Snapshot, error)
}
