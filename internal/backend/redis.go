package backend

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPort = "6379"

// Имена счетчиков redis INFO, продублированные под именами memcached,
// чтобы сводка дашборда считалась одинаково для обеих схем.
var redisAliases = map[string]string{
	"used_memory":                "bytes",
	"maxmemory":                  "limit_maxbytes",
	"connected_clients":          "curr_connections",
	"total_connections_received": "total_connections",
	"keyspace_hits":              "get_hits",
	"keyspace_misses":            "get_misses",
	"used_cpu_sys":               "rusage_system",
}

type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient понимает параметры password и db.
func NewRedisClient(host string, params map[string]string) (StatsClient, error) {
	if host == "" {
		return nil, fmt.Errorf("redis: empty host")
	}
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, defaultRedisPort)
	}

	opts := &redis.Options{
		Addr:                  addr,
		Password:              params["password"],
		MaxRetries:            -1, // консоль не повторяет запросы
		ContextTimeoutEnabled: true,
	}
	if db := params["db"]; db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("redis: invalid db %q: %w", db, err)
		}
		opts.DB = n
	}

	return &RedisClient{rdb: redis.NewClient(opts)}, nil
}

func (c *RedisClient) GetStats(ctx context.Context) (map[string]string, error) {
	info, err := c.rdb.Info(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: info: %w", err)
	}
	return ParseRedisInfo(info), nil
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// ParseRedisInfo превращает ответ INFO в плоскую мапу и добавляет memcached-алиасы.
func ParseRedisInfo(info string) map[string]string {
	stats := make(map[string]string)
	var keys int64
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		stats[name] = value

		// db0:keys=1,expires=0,avg_ttl=0
		if strings.HasPrefix(name, "db") {
			for _, part := range strings.Split(value, ",") {
				if n, ok := strings.CutPrefix(part, "keys="); ok {
					if v, err := strconv.ParseInt(n, 10, 64); err == nil {
						keys += v
					}
				}
			}
		}
	}

	for from, to := range redisAliases {
		if v, ok := stats[from]; ok {
			if _, exists := stats[to]; !exists {
				stats[to] = v
			}
		}
	}
	if _, exists := stats["curr_items"]; !exists {
		stats["curr_items"] = strconv.FormatInt(keys, 10)
	}

	hits, errH := strconv.ParseInt(stats["keyspace_hits"], 10, 64)
	misses, errM := strconv.ParseInt(stats["keyspace_misses"], 10, 64)
	if errH == nil && errM == nil {
		if _, exists := stats["cmd_get"]; !exists {
			stats["cmd_get"] = strconv.FormatInt(hits+misses, 10)
		}
	}

	return stats
}
