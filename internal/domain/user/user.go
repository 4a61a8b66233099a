// Package user defines a registered account.
package user

import (
	"fmt"
	"regexp"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// User is a registered account (immutable value object).
type User struct {
	username     string
	passwordHash string
	createdAt    int64
}

// New validates and creates a User. The hash is produced by the caller.
func New(username, passwordHash string, createdAt int64) (User, error) {
	if err := ValidateUsername(username); err != nil {
		return User{}, err
	}
	if passwordHash == "" {
		return User{}, fmt.Errorf("password hash is required")
	}
	return User{username: username, passwordHash: passwordHash, createdAt: createdAt}, nil
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(username, passwordHash string, createdAt int64) User {
	return User{username: username, passwordHash: passwordHash, createdAt: createdAt}
}

// ValidateUsername checks the username format: 3-64 chars of [a-zA-Z0-9_.-].
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-64 characters of letters, digits, '.', '_' or '-'")
	}
	return nil
}

// Username returns the login name.
func (u *User) Username() string { return u.username }

// PasswordHash returns the stored credential hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// CreatedAt returns the creation time in unix milliseconds.
func (u *User) CreatedAt() int64 { return u.createdAt }
