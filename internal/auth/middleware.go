package auth

import (
	"net/http"
	"strings"
)

// Middleware authenticates requests with a bearer token. A nil or empty
// secret disables authentication entirely; the engine then falls back
// to placeholder candidate names.
type Middleware struct {
	secret []byte
}

// NewMiddleware creates an auth middleware for the given secret.
func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{secret: secret}
}

// Enabled reports whether authentication is configured.
func (m *Middleware) Enabled() bool {
	return len(m.secret) > 0
}

// Wrap enforces a valid bearer token and stores its claims on the
// request context. When auth is disabled it passes requests through
// untouched.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if !m.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		claims, err := ParseToken(token, m.secret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
