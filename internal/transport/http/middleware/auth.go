package middleware

import (
	"context"
	"net/http"
	"strings"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/service"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware validates bearer tokens with the auth service
type AuthMiddleware struct {
	auth service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// Auth validates JWT token from Authorization header
func (m *AuthMiddleware) Auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r.Header.Get("Authorization"))
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			WriteError(w, http.StatusUnauthorized, apperr.KindUnauthorized.Code(), "Not authenticated")
			return
		}

		principal, err := m.auth.Verify(r.Context(), token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			WriteError(w, http.StatusUnauthorized, apperr.KindUnauthorized.Code(), apperr.MessageOf(err))
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, *principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// BearerToken extracts the token of a "Bearer <token>" header value
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetPrincipal extracts the authenticated caller from request context
func GetPrincipal(r *http.Request) (entity.Principal, bool) {
	principal, ok := r.Context().Value(principalKey).(entity.Principal)
	return principal, ok
}
