package backend

import (
	"fmt"
)

// ConfigError — строка backend URI не разбирается. Фатально для всего запроса статистики.
type ConfigError struct {
	URI    string
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid backend uri %q: %s (cause: %v)", e.URI, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid backend uri %q: %s", e.URI, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// HostResolutionError — для ключа хоста не нашлось клиента. Хост пропускается.
type HostResolutionError struct {
	Key   string
	Cause error
}

func (e *HostResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve cache %q: %v", e.Key, e.Cause)
}

func (e *HostResolutionError) Unwrap() error { return e.Cause }

// StatsQueryError — хост не ответил на stats (сеть, таймаут, нет поддержки).
// Хост попадает в выдачу с online=0.
type StatsQueryError struct {
	Host  string
	Cause error
}

func (e *StatsQueryError) Error() string {
	return fmt.Sprintf("stats query to %s failed: %v", e.Host, e.Cause)
}

func (e *StatsQueryError) Unwrap() error { return e.Cause }
