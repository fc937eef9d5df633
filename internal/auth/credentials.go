package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-tracker/internal/models"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Credentials registers and authenticates users.
type Credentials struct {
	users UserStore
}

// NewCredentials returns a Credentials backed by users.
func NewCredentials(users UserStore) *Credentials {
	return &Credentials{users: users}
}

// Register creates a user with a hashed password.
// It fails with models.ErrDuplicateUsername when the name is taken.
func (c *Credentials) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", models.ErrInvalidInput)
	}

	existing, err := c.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateUsername, username)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("look up user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The unique constraint still guards concurrent registrations of the same name.
	return c.users.CreateUser(ctx, username, hash)
}

// Authenticate returns the user whose password matches.
// Unknown users and wrong passwords both yield models.ErrInvalidCredentials.
func (c *Credentials) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}

	user, err := c.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}
