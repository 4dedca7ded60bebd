package service

import (
	"context"
	"time"

	"github.com/xela07ax/cachestats-console/internal/domain"
	"github.com/xela07ax/cachestats-console/internal/stats"
	"go.uber.org/zap"
)

// StatsCollector описывает, что сервису нужно от коллектора статистики
type StatsCollector interface {
	Collect(ctx context.Context, uri string, perHostTimeout time.Duration) ([]domain.HostStats, error)
}

// DashboardService отдает снимки статистики для настроенного backend URI.
// Ничего не кэширует: каждый вызов — свежий опрос хостов.
type DashboardService struct {
	collector  StatsCollector
	backendURI string
	timeout    time.Duration
	logger     *zap.Logger
}

func NewDashboardService(collector StatsCollector, backendURI string, timeout time.Duration, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		collector:  collector,
		backendURI: backendURI,
		timeout:    timeout,
		logger:     logger.Named("dashboard-service"),
	}
}

// HostDetails — детальная таблица: хосты в порядке конфигурации, счетчики по алфавиту.
func (s *DashboardService) HostDetails(ctx context.Context) ([]domain.HostDetail, error) {
	hosts, err := s.collector.Collect(ctx, s.backendURI, s.timeout)
	if err != nil {
		s.logger.Error("failed to collect cache stats", zap.Error(err))
		return nil, err
	}
	return stats.Details(hosts), nil
}

// GlobalStats — сводка для виджета дашборда.
func (s *DashboardService) GlobalStats(ctx context.Context) (*domain.GlobalSummary, error) {
	hosts, err := s.collector.Collect(ctx, s.backendURI, s.timeout)
	if err != nil {
		s.logger.Error("failed to collect cache stats", zap.Error(err))
		return nil, err
	}

	summary, err := stats.Summarize(hosts)
	if err != nil {
		s.logger.Error("failed to aggregate cache stats", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("cache stats aggregated",
		zap.Int("hosts", summary.Total),
		zap.Float64("online", summary.Online))
	return summary, nil
}
