package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/xela07ax/cachestats-console/internal/domain"
)

// AggregationError — значение счетчика не является числом.
type AggregationError struct {
	Host  string
	Field string
	Value string
	Cause error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("cannot aggregate %s=%q from host %s: %v", e.Field, e.Value, e.Host, e.Cause)
}

func (e *AggregationError) Unwrap() error { return e.Cause }

var (
	errNotFinite  = errors.New("counter is not a finite number")
	errNotDecimal = errors.New("counter is not a decimal number")
)

// parseCounter разбирает счетчик хоста. Принимаются только конечные десятичные значения:
// NaN, Inf и шестнадцатеричная запись ParseFloat испортили бы сумму и JSON-ответ.
func parseCounter(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, "xX") {
		return 0, errNotDecimal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// Summarize суммирует счетчики domain.SummaryFields по всем хостам.
// Отсутствующий счетчик считается нулем, нечисловой — ошибка.
func Summarize(hosts []domain.HostStats) (*domain.GlobalSummary, error) {
	summary := &domain.GlobalSummary{Total: len(hosts)}

	for _, h := range hosts {
		for _, field := range domain.SummaryFields {
			raw, ok := h.Stats[field]
			if !ok {
				continue
			}
			v, err := parseCounter(raw)
			if err != nil {
				return nil, &AggregationError{Host: h.Host, Field: field, Value: raw, Cause: err}
			}
			*summary.Field(field) += v
		}
	}

	if summary.CmdGet > 0 {
		summary.HitRatio = summary.GetHits / summary.CmdGet
	}
	if summary.LimitMaxBytes > 0 {
		summary.MemoryUsage = summary.Bytes / summary.LimitMaxBytes
	}

	return summary, nil
}

// SortedStats раскладывает счетчики хоста по имени для детальной таблицы.
func SortedStats(stats map[string]string) []domain.StatEntry {
	entries := make([]domain.StatEntry, 0, len(stats))
	for k, v := range stats {
		entries = append(entries, domain.StatEntry{Name: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Details готовит данные детального представления, сохраняя порядок хостов.
func Details(hosts []domain.HostStats) []domain.HostDetail {
	details := make([]domain.HostDetail, 0, len(hosts))
	for _, h := range hosts {
		d := domain.HostDetail{
			Host:   h.Host,
			Online: h.Online,
			Stats:  SortedStats(h.Stats),
		}
		if h.Err != nil {
			d.Error = h.Err.Error()
		}
		details = append(details, d)
	}
	return details
}
