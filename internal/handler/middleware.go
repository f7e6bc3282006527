package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/service"
)

type contextKey string

const callerContextKey contextKey = "auth.caller"

// CallerFromContext returns the authenticated user stored by RequireAuth.
func CallerFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(callerContextKey).(*models.User)
	return user, ok
}

// AuthMiddleware resolves session tokens into user identities before
// protected handlers run.
type AuthMiddleware struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthMiddleware(auth *service.AuthService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, logger: logger}
}

// RequireAuth extracts the session token from the JwtToken cookie, falling
// back to an Authorization bearer header, and rejects the request when no
// valid session can be resolved.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := sessionToken(r)
		user, err := m.auth.ResolveCaller(r.Context(), tok)
		if err != nil {
			respondWithError(w, m.logger, statusFromError(err), err, "Authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), callerContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCapability gates a route on the caller's role authority. It must
// run after RequireAuth.
func (m *AuthMiddleware) RequireCapability(cap models.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CallerFromContext(r.Context())
			if !ok {
				respondWithError(w, m.logger, http.StatusUnauthorized, service.ErrInvalidSession, "Authentication required")
				return
			}
			if !user.Role.Has(cap) {
				respondWithError(w, m.logger, http.StatusForbidden, service.ErrForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
