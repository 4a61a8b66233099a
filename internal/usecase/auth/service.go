// Package auth registers users and checks their credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/user"
)

// Service handles registration and authentication.
type Service struct {
	repo Repository
	cost int
	now  func() time.Time
}

// New creates an auth service. cost <= 0 uses bcrypt.DefaultCost.
func New(repo Repository, cost int) *Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost, now: time.Now}
}

// Register hashes the password and stores a new user.
func (s *Service) Register(ctx context.Context, username, password string) (user.User, error) {
	if err := user.ValidateUsername(username); err != nil {
		return user.User{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if len(password) < user.MinPasswordLength {
		return user.User{}, fmt.Errorf("%w: password must be at least %d characters",
			domain.ErrValidation, user.MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return user.User{}, fmt.Errorf("%w: password too long", domain.ErrValidation)
		}
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := user.New(username, string(hash), s.now().UnixMilli())
	if err != nil {
		return user.User{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (user.User, error) {
	u, err := s.repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return user.User{}, domain.ErrInvalidCredentials
		}
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		return user.User{}, domain.ErrInvalidCredentials
	}
	return u, nil
}
