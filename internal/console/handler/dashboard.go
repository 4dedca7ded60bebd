package handler

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/xela07ax/cachestats-console/internal/domain"
	"github.com/xela07ax/cachestats-console/internal/stats"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"bytes": func(v float64) string {
		if v < 0 {
			return "0 B"
		}
		return humanize.Bytes(uint64(v))
	},
	"comma":   humanize.Commaf,
	"percent": func(v float64) string { return humanize.FtoaWithDigits(v*100, 1) + "%" },
}).ParseFS(templateFS, "templates/*.html"))

// DashboardService Описываем, что нам нужно от сервиса
type DashboardService interface {
	HostDetails(ctx context.Context) ([]domain.HostDetail, error)
	GlobalStats(ctx context.Context) (*domain.GlobalSummary, error)
}

type DashboardHandler struct {
	service DashboardService
	logger  *zap.Logger
}

func NewDashboardHandler(s DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, logger: logger.Named("dashboard-handler")}
}

// GetStats отдает статистику по каждому хосту.
// GET /api/v1/cache/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.HostDetails(r.Context())
	if err != nil {
		writeJSONError(w, h.logger, statusFor(err), err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, details)
}

// GetSummary отдает сумму счетчиков по всем хостам.
// GET /api/v1/cache/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GlobalStats(r.Context())
	if err != nil {
		writeJSONError(w, h.logger, statusFor(err), err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, summary)
}

// Index — HTML страница с таблицей по каждому хосту.
// GET /cache/
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.HostDetails(r.Context())
	data := map[string]any{"Hosts": details}
	status := http.StatusOK
	if err != nil {
		data = map[string]any{"Error": err.Error()}
		status = statusFor(err)
	}
	h.render(w, status, "index.html", data)
}

// Widget — HTML блок сводки для встраивания в общий дашборд.
// GET /cache/dashboard
func (h *DashboardHandler) Widget(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GlobalStats(r.Context())
	data := map[string]any{"Summary": summary}
	status := http.StatusOK
	if err != nil {
		data = map[string]any{"Error": err.Error()}
		status = statusFor(err)
	}
	h.render(w, status, "dashboard.html", data)
}

func (h *DashboardHandler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template rendering failed", zap.String("template", name), zap.Error(err))
	}
}

// statusFor — битый URI в конфиге это ошибка консоли, мусор в счетчиках — ошибка бэкенда.
func statusFor(err error) int {
	var aggErr *stats.AggregationError
	if errors.As(err, &aggErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
