package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/user"
)

// --- Mocks ---

type mockRepo struct {
	users     map[string]user.User
	createErr error
	getErr    error
}

func newMockRepo() *mockRepo { return &mockRepo{users: map[string]user.User{}} }

func (m *mockRepo) Create(_ context.Context, u user.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.users[u.Username()]; ok {
		return domain.ErrAlreadyExists
	}
	m.users[u.Username()] = u
	return nil
}

func (m *mockRepo) Get(_ context.Context, username string) (user.User, error) {
	if m.getErr != nil {
		return user.User{}, m.getErr
	}
	u, ok := m.users[username]
	if !ok {
		return user.User{}, domain.ErrNotFound
	}
	return u, nil
}

// --- Tests ---

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, bcrypt.MinCost)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PasswordHash() == "correct horse" {
		t.Fatal("password stored in clear")
	}

	got, err := svc.Authenticate(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.Username() != "alice" {
		t.Errorf("Username() = %q", got.Username())
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := New(newMockRepo(), bcrypt.MinCost)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "password1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "alice", "password2"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := New(newMockRepo(), bcrypt.MinCost)
	tests := []struct {
		name, username, password string
	}{
		{"short username", "al", "password1"},
		{"short password", "alice", "short"},
		{"password over 72 bytes", "alice", strings.Repeat("p", 73)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.password)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, bcrypt.MinCost)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "password1"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "bob", "password1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}

	repo.getErr = errors.New("connection lost")
	_, err := svc.Authenticate(ctx, "alice", "password1")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("store failure must surface, got %v", err)
	}
}
