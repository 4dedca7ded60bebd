package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Сколько занял опрос одного хоста
	PollDuration *prometheus.HistogramVec

	// Доступность хоста по последнему опросу (0 / 1)
	HostOnline *prometheus.GaugeVec

	// Ключи, для которых не нашелся клиент
	ResolveErrors prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Если регистр не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		PollDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cachestats_poll_duration_seconds",
			Help:    "Histogram of cache host stats query latencies.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"host", "status"}),

		HostOnline: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "cachestats_host_online",
			Help: "Whether the cache host answered the last stats query (1=online, 0=offline).",
		}, []string{"host"}),

		ResolveErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cachestats_resolve_errors_total",
			Help: "Total number of cache hosts that could not be resolved to a client.",
		}),
	}
}
