package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xela07ax/cachestats-console/internal/domain"
	"go.uber.org/zap"
)

// TokenValidator — всё, что middleware нужно от сервиса авторизации
type TokenValidator interface {
	VerifyToken(tokenStr string) (*domain.CustomClaims, error)
}

type ctxKey string

const claimsKey ctxKey = "operator_claims"

// NewMiddleware пропускает только запросы с валидным RS256 токеном.
// Если задан scope, токен обязан его содержать. Отказ приходит JSON-ом {"error": ...}.
func NewMiddleware(v TokenValidator, scope string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.VerifyToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn("auth failure", zap.String("path", r.URL.Path), zap.Error(err))
				w.Header().Set("WWW-Authenticate", `Bearer realm="`+Issuer+`"`)
				deny(w, logger, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !claims.Allows(scope) {
				logger.Warn("operator lacks scope",
					zap.String("operator", claims.Subject),
					zap.String("scope", scope))
				deny(w, logger, http.StatusForbidden, "scope "+scope+" required")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, logger *zap.Logger, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		logger.Debug("deny response write failed", zap.Error(err))
	}
}

// ClaimsFromContext достает claims оператора, положенные middleware.
func ClaimsFromContext(ctx context.Context) (*domain.CustomClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*domain.CustomClaims)
	return c, ok
}
