package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crok/internal/auth"
	"crok/internal/domain"
	"crok/internal/domain/models"
	"crok/internal/domain/repositories"
	"crok/internal/domain/services"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// authService implements the AuthService interface. Passwords are
// stored as bcrypt hashes only; the plaintext credential never reaches
// the repository.
type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new identity. The username-taken check rides on
// the repository's unique constraint, so concurrent registrations of
// the same name cannot both succeed.
func (s *authService) Register(ctx context.Context, creds services.Credentials) (*services.AuthResult, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     creds.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "id", user.ID, "username", user.Username)
	return &services.AuthResult{User: user, Token: token}, nil
}

// Login resolves credentials to an identity. An unknown username and a
// wrong password yield the same error.
func (s *authService) Login(ctx context.Context, creds services.Credentials) (*services.AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.logger.Debug("password mismatch", "username", creds.Username)
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "id", user.ID, "username", user.Username)
	return &services.AuthResult{User: user, Token: token}, nil
}

// validateCredentials checks the registration constraints. The 72-byte
// password ceiling is bcrypt's input limit.
func validateCredentials(creds services.Credentials) error {
	return validation.ValidateStruct(&creds,
		validation.Field(&creds.Username,
			validation.Required,
			validation.Length(3, 32),
			validation.Match(usernamePattern).Error("username may only contain letters, digits, dots, dashes and underscores"),
		),
		validation.Field(&creds.Password,
			validation.Required,
			validation.Length(8, 72),
		),
	)
}
