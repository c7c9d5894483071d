package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CookieName carries the storefront session ID.
const CookieName = "storefront_session"

type contextKey struct{}

// Middleware ensures every request has a session ID: it reads the session
// cookie, minting and setting a fresh UUID when absent, and exposes the ID on
// the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
			id = cookie.Value
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID returns a context carrying the given session ID. Middleware uses it;
// tests use it to stand in for the middleware.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the session ID placed by Middleware, or "" when the
// request did not pass through it.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
