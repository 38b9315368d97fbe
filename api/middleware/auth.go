package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type sessionReader interface {
	Current(ctx context.Context) (*auth.Session, error)
}

// RequireSession rejects requests unless a stored, unexpired session exists
// and seeds the context with it.
func RequireSession(sessions sessionReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Current(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withSessionFields(r.Context(), logg, sess)))
		})
	}
}

// OptionalSession attaches the session when one exists and never rejects.
func OptionalSession(sessions sessionReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if sess, err := sessions.Current(ctx); err == nil {
				ctx = withSessionFields(ctx, logg, sess)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withSessionFields(ctx context.Context, logg *logger.Logger, sess *auth.Session) context.Context {
	ctx = WithSession(ctx, sess)
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"username": sess.User.Username,
			"role":     string(sess.User.Role),
		})
	}
	return ctx
}
