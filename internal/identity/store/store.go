// Package store persists identity accounts.
package store

import (
	"context"

	"reunion/internal/identity/models"
)

// UserStore persists accounts. FindByEmail returns (nil, nil) when no account
// exists; absence is an expected outcome, not an error.
type UserStore interface {
	// Create inserts a new account. Fails if the email is already taken.
	Create(ctx context.Context, user *models.User) error

	// FindByEmail looks an account up by normalized email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
