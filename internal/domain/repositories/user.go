package repositories

import (
	"context"

	"crok/internal/domain/models"
)

// UserRepository defines data access operations for identities.
type UserRepository interface {
	// Create inserts a new user. Returns an error wrapping
	// domain.ErrConflict when the username is already taken.
	Create(ctx context.Context, user *models.User) error

	// GetByUsername retrieves a user by username. Returns an error
	// wrapping domain.ErrNotFound when no such user exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
