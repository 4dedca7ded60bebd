package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	Scopes map[string]bool `json:"scopes"` // "admin": true или "cache.read": true
	jwt.RegisteredClaims
}

// Allows — есть ли у оператора scope. admin разрешает всё.
func (c *CustomClaims) Allows(scope string) bool {
	return scope == "" || c.Scopes[scope] || c.Scopes["admin"]
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // Всегда "Bearer"
	ExpiresIn   int64  `json:"expires_in"`
}

// Operator — учетная запись администратора консоли.
type Operator struct {
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"` // Никогда не отправляем на фронт
	Scopes       map[string]bool `json:"scopes"`
}
