// Package user stores accounts as hashes keyed by username.
package user

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	domuser "github.com/kailas-cloud/thesisrec/internal/domain/user"
	"github.com/kailas-cloud/thesisrec/internal/repository"
)

const (
	fieldPasswordHash = "password_hash"
	fieldCreatedAt    = "created_at"
)

type store interface {
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/auth.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a user repository.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = repository.DefaultPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(username string) string { return r.prefix + "user:" + username }

// Create stores a new user. The password hash is claimed with HSETNX so two
// concurrent registrations of one name cannot both succeed.
func (r *Repo) Create(ctx context.Context, u domuser.User) error {
	key := r.key(u.Username())
	ok, err := r.store.HSetNX(ctx, key, fieldPasswordHash, u.PasswordHash())
	if err != nil {
		return fmt.Errorf("hsetnx user %s: %w", u.Username(), err)
	}
	if !ok {
		return domain.ErrAlreadyExists
	}
	if err := r.store.HSet(ctx, key, map[string]string{
		fieldCreatedAt: strconv.FormatInt(u.CreatedAt(), 10),
	}); err != nil {
		return fmt.Errorf("hset user %s: %w", u.Username(), err)
	}
	return nil
}

// Get retrieves a user by name.
func (r *Repo) Get(ctx context.Context, username string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, r.key(username))
	if err != nil {
		return domuser.User{}, fmt.Errorf("hgetall user %s: %w", username, err)
	}
	if len(m) == 0 || m[fieldPasswordHash] == "" {
		return domuser.User{}, domain.ErrNotFound
	}
	createdAt, _ := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	return domuser.Reconstruct(username, m[fieldPasswordHash], createdAt), nil
}
