package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/authenticating"
	"github.com/vfg2006/rfm-segmentation-api/pkg/apiErrors"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

var publicPaths = map[string]bool{
	"/healthcheck": true,
	"/v1/login":    true,
}

func AuthMiddleware(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Authorization header is required", nil)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Bearer token is required", nil)
				return
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Invalid token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r, claims)))
		})
	}
}

// ClaimsFromContext retorna as claims do usuário autenticado
func ClaimsFromContext(r *http.Request) (*domain.Claims, bool) {
	claims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)
	return claims, ok
}

// ContextWithClaims anexa as claims ao contexto da requisição
func ContextWithClaims(r *http.Request, claims *domain.Claims) context.Context {
	return context.WithValue(r.Context(), ContextKeyUser, claims)
}
