package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"crok/internal/domain"
	"crok/internal/domain/models"
)

func newTestManager(t *testing.T, secret string, ttl time.Duration) *TokenManager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := NewTokenManager(secret, ttl, logger)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return m
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewTokenManager("", time.Hour, logger); err == nil {
		t.Error("empty secret accepted")
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t, "secret", time.Hour)
	user := &models.User{ID: "user-1", Username: "alice"}

	token, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sess, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sess.UserID != "user-1" || sess.Username != "alice" {
		t.Errorf("session = %+v", sess)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := newTestManager(t, "secret-a", time.Hour)
	verifier := newTestManager(t, "secret-b", time.Hour)

	token, err := issuer.Issue(&models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Verify = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t, "secret", -time.Minute)

	token, err := m.Issue(&models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Verify = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t, "secret", time.Hour)

	for _, token := range []string{"", "not.a.jwt", "a.b.c"} {
		if _, err := m.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Verify(%q) = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestSessionAuthenticated(t *testing.T) {
	var nilSession *Session
	if nilSession.Authenticated() {
		t.Error("nil session reports authenticated")
	}
	if (&Session{}).Authenticated() {
		t.Error("empty session reports authenticated")
	}
	if !(&Session{UserID: "user-1"}).Authenticated() {
		t.Error("session with user ID reports unauthenticated")
	}
}
