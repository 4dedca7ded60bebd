package stats

import (
	"context"
	"time"

	"github.com/xela07ax/cachestats-console/internal/backend"
	"github.com/xela07ax/cachestats-console/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultTimeout = 5 * time.Second

// Resolver описывает, что коллектору нужно от реестра кэшей
type Resolver interface {
	Resolve(key string) (backend.StatsClient, error)
}

// Collector опрашивает все хосты backend URI параллельно.
// Таймаут передается в каждый вызов через контекст, поэтому общий Collector
// безопасно вызывать из нескольких запросов одновременно.
type Collector struct {
	resolver    Resolver
	timeout     time.Duration
	concurrency int
	metrics     *Metrics
	logger      *zap.Logger
}

func NewCollector(resolver Resolver, timeout time.Duration, concurrency int, metrics *Metrics, logger *zap.Logger) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Collector{
		resolver:    resolver,
		timeout:     timeout,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      logger.Named("collector"),
	}
}

// Timeout — таймаут на хост по умолчанию. Collect его не меняет.
func (c *Collector) Timeout() time.Duration {
	return c.timeout
}

type target struct {
	host   string
	client backend.StatsClient
}

// Collect возвращает по одной записи на каждый хост, для которого нашелся клиент,
// в порядке хостов в URI. Ошибка возвращается только для неразборчивого URI.
func (c *Collector) Collect(ctx context.Context, uri string, perHostTimeout time.Duration) ([]domain.HostStats, error) {
	u, err := backend.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if perHostTimeout <= 0 {
		perHostTimeout = c.timeout
	}

	targets := make([]target, 0, len(u.Hosts))
	for _, host := range u.Hosts {
		client, err := c.resolver.Resolve(u.Key(host))
		if err != nil {
			c.metrics.ResolveErrors.Inc()
			c.logger.Error("failed to resolve cache host, skipping",
				zap.String("host", host),
				zap.String("scheme", u.Scheme),
				zap.Error(err))
			continue
		}
		targets = append(targets, target{host: host, client: client})
	}

	// Каждая горутина пишет только в свой слот: порядок хостов сохраняется без сортировки
	results := make([]domain.HostStats, len(targets))

	var g errgroup.Group
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	for i, t := range targets {
		g.Go(func() error {
			results[i] = c.query(ctx, t, perHostTimeout)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

type reply struct {
	stats map[string]string
	err   error
}

func (c *Collector) query(ctx context.Context, t target, timeout time.Duration) domain.HostStats {
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	// Клиент может не уважать контекст, поэтому ждем ответ не дольше таймаута
	ch := make(chan reply, 1)
	go func() {
		s, err := t.client.GetStats(qctx)
		ch <- reply{stats: s, err: err}
	}()

	var r reply
	select {
	case r = <-ch:
	case <-qctx.Done():
		r.err = qctx.Err()
	}

	elapsed := time.Since(start).Seconds()

	if r.err != nil {
		c.metrics.PollDuration.WithLabelValues(t.host, "offline").Observe(elapsed)
		c.metrics.HostOnline.WithLabelValues(t.host).Set(0)
		c.logger.Warn("cache host stats query failed",
			zap.String("host", t.host),
			zap.Duration("timeout", timeout),
			zap.Error(r.err))

		return domain.HostStats{
			Host:   t.host,
			Stats:  map[string]string{"online": "0"},
			Online: 0,
			Err:    &backend.StatsQueryError{Host: t.host, Cause: r.err},
		}
	}

	c.metrics.PollDuration.WithLabelValues(t.host, "online").Observe(elapsed)
	c.metrics.HostOnline.WithLabelValues(t.host).Set(1)

	stats := make(map[string]string, len(r.stats)+1)
	for k, v := range r.stats {
		stats[k] = v
	}
	stats["online"] = "1"

	return domain.HostStats{Host: t.host, Stats: stats, Online: 1}
}
