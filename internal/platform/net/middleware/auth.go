package middleware

import (
	"net/http"
	"strings"

	pnet "codegap/internal/platform/net"
)

// AuthPort resolves the acting user from a request
type AuthPort interface {
	// Parse returns a user id from the request or an error
	Parse(r *http.Request) (userID string, err error)
}

// Auth stores the resolved user id on the request context. It is a no-op until a port is wired
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderAuth trusts the identity header stamped by the edge gateway.
// Anonymous requests pass through with no user on context
type HeaderAuth struct {
	// Header defaults to X-User-ID when empty
	Header string
}

// Parse implements AuthPort
func (h HeaderAuth) Parse(r *http.Request) (string, error) {
	name := h.Header
	if name == "" {
		name = "X-User-ID"
	}
	return strings.TrimSpace(r.Header.Get(name)), nil
}
