package backend

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RegistrySettings — общие настройки всех клиентов реестра.
type RegistrySettings struct {
	Guard GuardSettings
	// Запросов stats в секунду на весь реестр. <= 0 — без ограничения.
	RateLimit float64
	RateBurst int
}

// Registry по составному ключу scheme://host?params отдает клиента статистики.
// Клиенты создаются лениво и переиспользуются между запросами.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	clients   map[string]StatsClient
	closers   []io.Closer

	limiter  *rate.Limiter
	settings RegistrySettings
	logger   *zap.Logger
}

func NewRegistry(settings RegistrySettings, logger *zap.Logger) *Registry {
	var limiter *rate.Limiter
	if settings.RateLimit > 0 {
		burst := settings.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(settings.RateLimit), burst)
	}

	r := &Registry{
		factories: make(map[string]Factory),
		clients:   make(map[string]StatsClient),
		limiter:   limiter,
		settings:  settings,
		logger:    logger.Named("cache-registry"),
	}

	r.Register("memcached", NewMemcachedClient)
	r.Register("memcache", NewMemcachedClient)
	r.Register("pylibmc", NewMemcachedClient)
	r.Register("redis", NewRedisClient)
	return r
}

// Register добавляет (или подменяет) фабрику клиентов для схемы.
func (r *Registry) Register(scheme string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[scheme] = f
}

// Resolve возвращает клиента для ключа одного хоста.
// Любая неудача — HostResolutionError.
func (r *Registry) Resolve(key string) (StatsClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[key]; ok {
		return c, nil
	}

	u, err := ParseURI(key)
	if err != nil {
		return nil, &HostResolutionError{Key: key, Cause: err}
	}
	if len(u.Hosts) != 1 || u.Hosts[0] == "" {
		return nil, &HostResolutionError{Key: key, Cause: errors.New("key must name exactly one non-empty host")}
	}

	factory, ok := r.factories[u.Scheme]
	if !ok {
		return nil, &HostResolutionError{Key: key, Cause: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	client, err := factory(u.Hosts[0], u.Params)
	if err != nil {
		return nil, &HostResolutionError{Key: key, Cause: err}
	}
	if c, ok := client.(io.Closer); ok {
		r.closers = append(r.closers, c)
	}

	guarded := newGuardedClient(key, client, r.limiter, r.settings.Guard)
	r.clients[key] = guarded

	r.logger.Debug("cache client created", zap.String("key", key), zap.String("scheme", u.Scheme))
	return guarded, nil
}

// Close освобождает всех клиентов, которые держат соединения.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	r.clients = make(map[string]StatsClient)
	return errors.Join(errs...)
}
