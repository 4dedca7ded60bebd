package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xela07ax/cachestats-console/internal/console/handler"
	"github.com/xela07ax/cachestats-console/internal/infra/auth"
	"go.uber.org/zap"
)

// ScopeCacheRead — scope токена, открывающий дашборд кэша
const ScopeCacheRead = "cache.read"

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger

	// nil — дашборд открыт без токена
	authValidator auth.TokenValidator

	authHandler    *handler.AuthHandler      // /auth/token
	dashHandler    *handler.DashboardHandler // /api/v1/cache, /cache
	metricsHandler http.Handler              // /metrics
}

// NewConsoleServer собирает роутер консоли. authH и validator могут быть nil.
func NewConsoleServer(
	logger *zap.Logger,
	validator auth.TokenValidator,
	authH *handler.AuthHandler,
	dashH *handler.DashboardHandler,
	metrics http.Handler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:         chi.NewRouter(),
		logger:         logger.Named("console-api"),
		authValidator:  validator,
		authHandler:    authH,
		dashHandler:    dashH,
		metricsHandler: metrics,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TracingMiddleware)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// --- 2. Публичные роуты ---
	r.Group(func(r chi.Router) {
		if s.authHandler != nil {
			r.Post("/auth/token", s.authHandler.Login)
		}

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		if s.metricsHandler != nil {
			r.Method(http.MethodGet, "/metrics", s.metricsHandler)
		}
	})

	// --- 3. Дашборд кэша ---
	r.Group(func(r chi.Router) {
		if s.authValidator != nil {
			r.Use(auth.NewMiddleware(s.authValidator, ScopeCacheRead, s.logger))
		}

		r.Route("/api/v1/cache", func(r chi.Router) {
			r.Get("/stats", s.dashHandler.GetStats)     // По каждому хосту
			r.Get("/summary", s.dashHandler.GetSummary) // Сумма по всем хостам
		})

		r.Route("/cache", func(r chi.Router) {
			r.Get("/", s.dashHandler.Index)
			r.Get("/dashboard", s.dashHandler.Widget)
		})
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
