package services

import (
	"context"

	"crok/internal/domain/models"
)

// Credentials is a username/password pair.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is a resolved identity plus its session token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService is the identity collaborator: registration, credential
// checks and session token issuance.
type AuthService interface {
	// Register creates a new identity. Fails with domain.ErrConflict
	// when the username is taken; the existing identity is untouched.
	Register(ctx context.Context, creds Credentials) (*AuthResult, error)

	// Login resolves credentials to an identity or fails with
	// domain.ErrUnauthorized. Whether the username exists or the
	// password is wrong is not distinguishable from the outside.
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
}
