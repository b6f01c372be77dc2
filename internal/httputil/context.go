package httputil

import (
	"context"

	"crok/internal/auth"
)

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a context carrying the authenticated session.
func WithSession(ctx context.Context, sess *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// GetSession extracts the session from the context. It returns nil
// when the request was not authenticated.
func GetSession(ctx context.Context) *auth.Session {
	sess, ok := ctx.Value(sessionKey).(*auth.Session)
	if !ok {
		return nil
	}
	return sess
}
