package middleware

import (
	"context"

	"github.com/angelmondragon/storefront/internal/auth"
)

type contextKey string

const (
	ctxRequestID contextKey = "request_id"
	ctxSession   contextKey = "session"
)

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}

// SessionFromContext returns the session attached by RequireSession or
// OptionalSession, if any.
func SessionFromContext(ctx context.Context) *auth.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*auth.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the session into the context.
func WithSession(ctx context.Context, sess *auth.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}
