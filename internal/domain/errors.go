package domain

import "errors"

// Sentinel errors for the error taxonomy - match with errors.Is().
// Repositories and services wrap these with context via fmt.Errorf %w;
// the handler layer maps them to HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
