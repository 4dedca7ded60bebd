package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/cachestats-console/internal/backend"
	"github.com/xela07ax/cachestats-console/internal/domain"
	"github.com/xela07ax/cachestats-console/internal/stats"
	"go.uber.org/zap"
)

type fakeDashboard struct {
	details []domain.HostDetail
	summary *domain.GlobalSummary
	err     error
}

func (f *fakeDashboard) HostDetails(context.Context) ([]domain.HostDetail, error) {
	return f.details, f.err
}

func (f *fakeDashboard) GlobalStats(context.Context) (*domain.GlobalSummary, error) {
	return f.summary, f.err
}

func sampleDashboard() *fakeDashboard {
	return &fakeDashboard{
		details: []domain.HostDetail{
			{Host: "h1", Online: 1, Stats: []domain.StatEntry{{Name: "bytes", Value: "1024"}, {Name: "online", Value: "1"}}},
			{Host: "h2", Online: 0, Error: "stats query to h2 failed: refused", Stats: []domain.StatEntry{{Name: "online", Value: "0"}}},
		},
		summary: &domain.GlobalSummary{Bytes: 1024, LimitMaxBytes: 4096, Online: 1, Total: 2, MemoryUsage: 0.25},
	}
}

func TestDashboardHandler_GetStats(t *testing.T) {
	h := NewDashboardHandler(sampleDashboard(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []domain.HostDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "h1", got[0].Host)
	assert.Equal(t, 0, got[1].Online)
}

func TestDashboardHandler_GetSummary(t *testing.T) {
	h := NewDashboardHandler(sampleDashboard(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cache/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, float64(1024), got["bytes"])
	assert.Equal(t, float64(2), got["total"])
	assert.Equal(t, float64(1), got["online"])
}

func TestDashboardHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"config error", &backend.ConfigError{URI: "badstring", Reason: "backend uri must start with scheme://"}, http.StatusInternalServerError},
		{"aggregation error", &stats.AggregationError{Host: "h1", Field: "bytes", Value: "x", Cause: errors.New("invalid syntax")}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDashboardHandler(&fakeDashboard{err: tt.err}, zap.NewNop())

			rec := httptest.NewRecorder()
			h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cache/summary", nil))
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.err.Error(), body["error"])

			rec = httptest.NewRecorder()
			h.Widget(rec, httptest.NewRequest(http.MethodGet, "/cache/dashboard", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), "Cache stats are unavailable")
		})
	}
}

func TestDashboardHandler_Index(t *testing.T) {
	h := NewDashboardHandler(sampleDashboard(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/cache/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<h2>h1</h2>")
	assert.Contains(t, body, "<td>bytes</td><td>1024</td>")
	assert.Contains(t, body, `h2 <span class="offline">offline</span>`)
}

func TestDashboardHandler_Widget(t *testing.T) {
	h := NewDashboardHandler(sampleDashboard(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Widget(rec, httptest.NewRequest(http.MethodGet, "/cache/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 / 2")
	assert.Contains(t, body, "1.0 kB / 4.1 kB (25%)")
}
