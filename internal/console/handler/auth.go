package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xela07ax/cachestats-console/internal/console/service"
	"github.com/xela07ax/cachestats-console/internal/domain"
	"go.uber.org/zap"
)

// Тело запроса на вход — два коротких поля, больше не читаем
const maxLoginBody = 4 << 10

var (
	errBadLogin     = errors.New("username and password are required")
	errUnauthorized = errors.New("unauthorized")
	errTokenIssue   = errors.New("token issue failed")
)

// TokenIssuer выдает токен по логину и паролю оператора.
type TokenIssuer interface {
	GenerateToken(ctx context.Context, username, password string) (*domain.TokenResponse, error)
}

type AuthHandler struct {
	issuer TokenIssuer
	logger *zap.Logger
}

func NewAuthHandler(issuer TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{issuer: issuer, logger: logger.Named("auth-handler")}
}

// Login выдает токен оператору консоли.
// POST /auth/token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody))
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSONError(w, h.logger, http.StatusBadRequest, errBadLogin)
		return
	}

	resp, err := h.issuer.GenerateToken(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		// не уточняем, что именно неверно (логин или пароль) для защиты от перебора
		h.logger.Warn("operator login rejected",
			zap.String("operator", req.Username),
			zap.String("remote", r.RemoteAddr))
		writeJSONError(w, h.logger, http.StatusUnauthorized, errUnauthorized)
		return
	case err != nil:
		h.logger.Error("token issue failed", zap.String("operator", req.Username), zap.Error(err))
		writeJSONError(w, h.logger, http.StatusInternalServerError, errTokenIssue)
		return
	}

	h.logger.Info("operator logged in", zap.String("operator", req.Username))
	writeJSON(w, h.logger, http.StatusOK, resp)
}
