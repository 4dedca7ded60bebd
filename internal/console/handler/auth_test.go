package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/cachestats-console/internal/console/service"
	"github.com/xela07ax/cachestats-console/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) GenerateToken(_ context.Context, username, password string) (*domain.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if username != "ops" || password != "s3cret" {
		return nil, service.ErrInvalidCredentials
	}
	return &domain.TokenResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 60}, nil
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		issuer *fakeIssuer
		status int
		errMsg string
	}{
		{name: "ok", body: `{"username":"ops","password":"s3cret"}`, issuer: &fakeIssuer{}, status: http.StatusOK},
		{name: "wrong password", body: `{"username":"ops","password":"nope"}`, issuer: &fakeIssuer{}, status: http.StatusUnauthorized, errMsg: "unauthorized"},
		{name: "empty password", body: `{"username":"ops"}`, issuer: &fakeIssuer{}, status: http.StatusBadRequest, errMsg: errBadLogin.Error()},
		{name: "broken json", body: `{"username":`, issuer: &fakeIssuer{}, status: http.StatusBadRequest},
		{name: "oversized body", body: `{"username":"` + strings.Repeat("a", maxLoginBody) + `"}`, issuer: &fakeIssuer{}, status: http.StatusBadRequest},
		{name: "signing failure", body: `{"username":"ops","password":"s3cret"}`, issuer: &fakeIssuer{err: errors.New("rsa: key too small")}, status: http.StatusInternalServerError, errMsg: errTokenIssue.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(tt.issuer, zap.NewNop())
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.body)))

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.status == http.StatusOK {
				var resp domain.TokenResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "tok", resp.AccessToken)
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body["error"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestAuthHandler_LogsRejectedLogin(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	h := NewAuthHandler(&fakeIssuer{}, zap.New(core))

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"username":"ops","password":"guess"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	entries := logs.FilterMessage("operator login rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ops", entries[0].ContextMap()["operator"])
	assert.NotContains(t, entries[0].ContextMap(), "password")
}
