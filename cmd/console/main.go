package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xela07ax/cachestats-console/internal/backend"
	"github.com/xela07ax/cachestats-console/internal/console/handler"
	"github.com/xela07ax/cachestats-console/internal/console/server"
	"github.com/xela07ax/cachestats-console/internal/console/service"
	"github.com/xela07ax/cachestats-console/internal/infra"
	"github.com/xela07ax/cachestats-console/internal/infra/auth"
	"github.com/xela07ax/cachestats-console/internal/stats"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Битый URI не мешает старту: дашборд покажет ошибку, как и положено
	if _, err := backend.ParseURI(cfg.Cache.Backend); err != nil {
		logger.Warn("cache backend uri is invalid", zap.Error(err))
	}

	// 2. Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := stats.NewMetrics(reg)

	// 3. Реестр клиентов кэша и коллектор
	registry := backend.NewRegistry(backend.RegistrySettings{
		Guard: backend.GuardSettings{
			BreakerFailures:    cfg.Cache.BreakerFailures,
			BreakerMaxRequests: cfg.Cache.BreakerMaxRequests,
			BreakerInterval:    cfg.Cache.BreakerInterval,
			BreakerTimeout:     cfg.Cache.BreakerTimeout,
		},
		RateLimit: cfg.Cache.RateLimit,
		RateBurst: cfg.Cache.RateBurst,
	}, logger)
	defer registry.Close()

	collector := stats.NewCollector(registry, cfg.Cache.Timeout, cfg.Cache.Concurrency, metrics, logger)
	dashService := service.NewDashboardService(collector, cfg.Cache.Backend, cfg.Cache.Timeout, logger)
	dashHandler := handler.NewDashboardHandler(dashService, logger)

	// 4. Авторизация (опционально)
	var validator auth.TokenValidator
	var authHandler *handler.AuthHandler
	if len(cfg.Auth.PublicKey) > 0 {
		pub, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
		if err != nil {
			return err
		}
		validator = auth.NewBaseValidator(pub)

		if len(cfg.Auth.PrivateKey) > 0 {
			priv, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
			if err != nil {
				return err
			}
			authService := service.NewAuthService(service.NewStaticOperators(cfg.Auth.Users), priv, cfg.Auth.TokenTTL)
			authHandler = handler.NewAuthHandler(authService, logger)
		}
	} else {
		logger.Warn("auth public key is not configured, dashboard is served without authentication")
	}

	consoleSrv := server.NewConsoleServer(
		logger,
		validator,
		authHandler,
		dashHandler,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)

	// 5. HTTP Server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      consoleSrv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("console API started",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.Cache.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-stop:
	}
	logger.Info("console API stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("console API exited properly")
	return nil
}
