// Package middleware provides HTTP middleware shared by the API routes.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const principalKey ContextKey = "principal"

// Principal identifies the admin a token was issued to.
type Principal interface {
	GetAdminID() uuid.UUID
	GetUsername() string
}

// TokenValidator validates a bearer token and returns its principal.
type TokenValidator interface {
	ValidateToken(tokenString string) (Principal, error)
}

// AuthMiddleware rejects requests without a valid bearer token with 401 and
// stores the token's principal in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "Missing Authorization Header")
				return
			}

			principal, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// bearerToken extracts the token from a "Bearer <token>" header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// GetPrincipal extracts the authenticated admin from the request context.
func GetPrincipal(r *http.Request) (Principal, error) {
	p, ok := r.Context().Value(principalKey).(Principal)
	if !ok {
		return nil, fmt.Errorf("principal not found in request context")
	}
	return p, nil
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
