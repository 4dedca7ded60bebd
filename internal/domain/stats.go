package domain

// HostStats — результат опроса одного хоста.
// Online=1 только при успешном stats; при ошибке Stats = {"online": "0"}, причина в Err.
type HostStats struct {
	Host   string            `json:"host"`
	Stats  map[string]string `json:"stats"`
	Online int               `json:"online"`
	Err    error             `json:"-"`
}

// StatEntry — одна строка детальной таблицы.
type StatEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HostDetail — хост со счетчиками, отсортированными по имени.
type HostDetail struct {
	Host   string      `json:"host"`
	Online int         `json:"online"`
	Error  string      `json:"error,omitempty"`
	Stats  []StatEntry `json:"stats"`
}

// GlobalSummary — сумма счетчиков по всем опрошенным хостам. Считается на каждый запрос.
type GlobalSummary struct {
	Bytes            float64 `json:"bytes"`
	LimitMaxBytes    float64 `json:"limit_maxbytes"`
	CurrItems        float64 `json:"curr_items"`
	CurrConnections  float64 `json:"curr_connections"`
	TotalConnections float64 `json:"total_connections"`
	TotalItems       float64 `json:"total_items"`
	CmdGet           float64 `json:"cmd_get"`
	GetHits          float64 `json:"get_hits"`
	GetMisses        float64 `json:"get_misses"`
	RusageSystem     float64 `json:"rusage_system"`
	Online           float64 `json:"online"`
	Total            int     `json:"total"`

	// Производные показатели виджета
	HitRatio    float64 `json:"hit_ratio"`
	MemoryUsage float64 `json:"memory_usage"`
}

// SummaryFields — счетчики, которые суммируются в GlobalSummary.
var SummaryFields = []string{
	"bytes",
	"limit_maxbytes",
	"curr_items",
	"curr_connections",
	"total_connections",
	"total_items",
	"cmd_get",
	"get_hits",
	"get_misses",
	"rusage_system",
	"online",
}

// Field возвращает указатель на счетчик по его имени в stats.
func (g *GlobalSummary) Field(name string) *float64 {
	switch name {
	case "bytes":
		return &g.Bytes
	case "limit_maxbytes":
		return &g.LimitMaxBytes
	case "curr_items":
		return &g.CurrItems
	case "curr_connections":
		return &g.CurrConnections
	case "total_connections":
		return &g.TotalConnections
	case "total_items":
		return &g.TotalItems
	case "cmd_get":
		return &g.CmdGet
	case "get_hits":
		return &g.GetHits
	case "get_misses":
		return &g.GetMisses
	case "rusage_system":
		return &g.RusageSystem
	case "online":
		return &g.Online
	}
	return nil
}
