package backend

import (
	"context"
)

// StatsClient — единственная возможность бэкенда, которая нужна консоли.
// Таймаут задается дедлайном контекста конкретного вызова, глобального состояния нет.
type StatsClient interface {
	GetStats(ctx context.Context) (map[string]string, error)
}

// Factory создает клиента для одного хоста схемы.
type Factory func(host string, params map[string]string) (StatsClient, error)
