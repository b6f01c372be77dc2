package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crok/internal/domain"
	"crok/internal/domain/models"
)

// Claims are the JWT claims carried by a session token. Subject is the
// user ID.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens. The client
// keeps the token in durable local storage and presents it on every
// request; verifying it at startup is how a session is restored.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewTokenManager creates a token manager. The signing secret must be
// non-empty.
func NewTokenManager(secret string, ttl time.Duration, logger *slog.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token signing secret cannot be empty")
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Issue creates a signed session token for the given user.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify validates a session token and returns the session it encodes.
// Any failure maps to domain.ErrUnauthorized; the cause is logged, not
// returned.
func (m *TokenManager) Verify(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks - HS256 only.
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		m.logger.Debug("token verification failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		m.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	return &Session{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}
