package backend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"
)

const defaultMemcachedPort = "11211"

// MemcachedClient выполняет команду "stats" текстового протокола memcached.
// Соединение открывается на каждый вызов: консоль опрашивает хосты редко.
type MemcachedClient struct {
	network string
	addr    string
	dialer  net.Dialer
}

// NewMemcachedClient принимает host:port, голый host (порт 11211) или unix:/path/to.sock.
func NewMemcachedClient(host string, _ map[string]string) (StatsClient, error) {
	if host == "" {
		return nil, errors.New("memcached: empty host")
	}
	if path, ok := strings.CutPrefix(host, "unix:"); ok {
		return &MemcachedClient{network: "unix", addr: path}, nil
	}
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, defaultMemcachedPort)
	}
	return &MemcachedClient{network: "tcp", addr: addr}, nil
}

func (c *MemcachedClient) GetStats(ctx context.Context) (map[string]string, error) {
	conn, err := c.dialer.DialContext(ctx, c.network, c.addr)
	if err != nil {
		return nil, fmt.Errorf("memcached: dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("memcached: set deadline: %w", err)
		}
	}
	// Отмена контекста рвет блокирующее чтение
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := io.WriteString(conn, "stats\r\n"); err != nil {
		return nil, fmt.Errorf("memcached: write stats command: %w", err)
	}

	stats, err := readStats(bufio.NewReader(conn))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("memcached: %w", ctx.Err())
		}
		// Дедлайн сокета совпадает с дедлайном контекста
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, fmt.Errorf("memcached: %w", context.DeadlineExceeded)
		}
		return nil, err
	}
	return stats, nil
}

// readStats читает строки "STAT <name> <value>" до "END".
func readStats(r *bufio.Reader) (map[string]string, error) {
	stats := make(map[string]string)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("memcached: %w", io.ErrUnexpectedEOF)
			}
			return nil, fmt.Errorf("memcached: read stats: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "END":
			return stats, nil
		case line == "ERROR",
			strings.HasPrefix(line, "CLIENT_ERROR"),
			strings.HasPrefix(line, "SERVER_ERROR"):
			return nil, fmt.Errorf("memcached: server replied %q", line)
		}

		fields := strings.SplitN(line, " ", 3)
		if len(fields) != 3 || fields[0] != "STAT" {
			return nil, fmt.Errorf("memcached: unexpected line %q", line)
		}
		stats[fields[1]] = fields[2]
	}
}
