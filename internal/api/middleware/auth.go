package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/auth"
	"github.com/gymmate/gymmate/internal/store"
)

// userEmailKey is the context key for the authenticated user's email.
type userEmailKey struct{}

// SessionResolver maps a bearer token (possibly empty) to the session user.
type SessionResolver interface {
	CurrentUserEmail(ctx context.Context, token string) (string, error)
}

// Auth rejects requests without an active session and stores the user's
// email in the request context. The bearer token is optional here because
// document-mode sessions live in the stored document.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				writeUnauthorized(w, r, "invalid authorization header format")
				return
			}

			email, err := sessions.CurrentUserEmail(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, store.ErrUnavailable):
					problem := models.NewServiceUnavailable(GetRequestID(r.Context()), "session store unavailable")
					problem.Instance = r.URL.Path
					problem.Write(w)
				case errors.Is(err, auth.ErrAccessTokenExpired):
					writeUnauthorized(w, r, "access token has expired")
				case errors.Is(err, auth.ErrTokenRevoked):
					writeUnauthorized(w, r, "access token has been revoked")
				case errors.Is(err, auth.ErrInvalidAccessToken):
					writeUnauthorized(w, r, "invalid access token")
				default:
					writeUnauthorized(w, r, "authentication required")
				}
				return
			}

			setLoggedUser(r.Context(), email)
			ctx := context.WithValue(r.Context(), userEmailKey{}, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the bearer token. A missing header yields ("", true);
// a header that is not a bearer token yields ("", false).
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", true
	}
	const bearerPrefix = "Bearer "
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}

// writeUnauthorized writes a 401 Unauthorized response.
// The response package imports this one, so the problem is written directly.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	problem := models.NewUnauthorized(GetRequestID(r.Context()), detail)
	problem.Instance = r.URL.Path
	w.Header().Set("WWW-Authenticate", `Bearer realm="gymmate"`)
	problem.Write(w)
}

// GetUserEmail returns the authenticated user's email, or "" outside Auth.
func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(userEmailKey{}).(string); ok {
		return email
	}
	return ""
}

// WithUserEmail returns ctx carrying email as the authenticated user.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey{}, email)
}
