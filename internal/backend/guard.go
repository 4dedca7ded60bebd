package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardSettings — настройки предохранителя вокруг клиента одного хоста.
type GuardSettings struct {
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	// Сколько ошибок подряд открывают предохранитель. 0 — предохранитель выключен.
	BreakerFailures uint32
}

// guardedClient ограничивает частоту запросов и отсекает хост, который стабильно не отвечает.
// Открытый предохранитель — такая же ошибка запроса: хост уходит в online=0 без похода в сеть.
type guardedClient struct {
	next    StatsClient
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func newGuardedClient(name string, next StatsClient, limiter *rate.Limiter, s GuardSettings) *guardedClient {
	g := &guardedClient{next: next, limiter: limiter}
	if s.BreakerFailures > 0 {
		g.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: s.BreakerMaxRequests,
			Interval:    s.BreakerInterval,
			Timeout:     s.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= s.BreakerFailures
			},
			IsSuccessful: hostHealthy,
		})
	}
	return g
}

// hostHealthy решает, засчитывать ли результат вызова хосту.
// Отмена запроса вызывающей стороной (закрытая вкладка, обновление страницы) о хосте ничего не говорит.
// Истекший дедлайн опроса остается ошибкой хоста.
func hostHealthy(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

func (g *guardedClient) GetStats(ctx context.Context) (map[string]string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	if g.cb == nil {
		return g.next.GetStats(ctx)
	}

	res, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.GetStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.(map[string]string), nil
}
