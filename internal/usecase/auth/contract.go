package auth

import (
	"context"

	"github.com/kailas-cloud/thesisrec/internal/domain/user"
)

// Repository stores user accounts.
type Repository interface {
	Create(ctx context.Context, u user.User) error
	Get(ctx context.Context, username string) (user.User, error)
}
