package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/billbook/internal/auth"
	"github.com/mmynk/billbook/internal/models"
)

// SessionResolver maps a session cookie value to a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Session, error)
}

// GetUserID extracts the logged-in user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// WithUserID returns a context carrying the logged-in user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// LoadSession resolves the session cookie, if any, and adds the user ID to
// the request context. Requests without a valid session pass through
// anonymously; use RequireSession to gate a route.
func LoadSession(sessions SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, auth.ErrNoSession) {
					logger.Error("Failed to resolve session",
						"request_id", GetRequestID(r.Context()),
						"error", err,
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), session.UserID)))
		})
	}
}

// RequireSession redirects requests without a logged-in user to loginPath.
func RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUserID(r.Context()) == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
