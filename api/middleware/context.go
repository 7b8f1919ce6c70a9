package middleware

import (
	"context"

	"github.com/nexusmart/storefront-gateway/internal/session"
)

type contextKey string

const (
	ctxSession contextKey = "session"
	ctxRole    contextKey = "actor_role"
)

// WithSession injects the authenticated session into the context.
func WithSession(ctx context.Context, sess session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxSession, sess)
	return context.WithValue(ctx, ctxRole, sess.Role)
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	if ctx == nil {
		return session.Session{}, false
	}
	if v, ok := ctx.Value(ctxSession).(session.Session); ok {
		return v, true
	}
	return session.Session{}, false
}

// RoleFromContext returns the caller's role, empty when unauthenticated.
func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}
