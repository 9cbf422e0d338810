package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tasket-app/tasket-api/internal/httputil"
	"github.com/tasket-app/tasket-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey   ContextKey = "user"
	ClaimsContextKey ContextKey = "claims"
)

// Middleware resolves the session cookie to a live user record for protected
// routes. The user is re-fetched on every request; a token for a deleted
// account resolves to no session.
type Middleware struct {
	tokenService TokenService
	users        UserStore
}

func NewMiddleware(tokenService TokenService, users UserStore) *Middleware {
	return &Middleware{tokenService: tokenService, users: users}
}

// ResolveSession turns a request into its authenticated user and token
// claims. Absent cookie, invalid or expired token, and vanished user records
// all degrade to (nil, nil) — no failure here ever reaches a client as an
// error.
func (m *Middleware) ResolveSession(r *http.Request) (*user.User, *TokenClaims) {
	token := extractToken(r)
	if token == "" {
		return nil, nil
	}

	claims, err := m.tokenService.VerifyToken(token)
	if err != nil {
		return nil, nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil
	}

	u, err := m.users.GetByID(r.Context(), userID)
	if err != nil {
		return nil, nil
	}

	// Strip the hash before the record travels through handlers.
	u.PasswordHash = ""

	return u, claims
}

// RequireAuth rejects requests without a resolvable session.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, claims := m.ResolveSession(r)
		if u == nil {
			httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, u)
		ctx = context.WithValue(ctx, ClaimsContextKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads the session token from the Authorization header first,
// falling back to the session cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	token, err := GetSessionTokenFromCookie(r)
	if err != nil {
		return ""
	}
	return token
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*user.User)
	return u, ok
}

// GetClaimsFromContext extracts the verified token claims from the request context
func GetClaimsFromContext(ctx context.Context) (*TokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*TokenClaims)
	return claims, ok
}
