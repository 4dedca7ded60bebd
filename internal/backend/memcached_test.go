package backend

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMemcached отвечает reply на каждую команду stats.
// Пустой reply — соединение принимается, но ответа нет.
func fakeMemcached(t *testing.T, reply string) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil || strings.TrimSpace(line) != "stats" {
					return
				}
				if reply == "" {
					time.Sleep(time.Second)
					return
				}
				c.Write([]byte(reply))
			}(conn)
		}
	}()

	return ln.Addr().String()
}

func TestMemcachedClient_GetStats(t *testing.T) {
	addr := fakeMemcached(t, "STAT pid 42\r\nSTAT version 1.6.21\r\nSTAT rusage_system 0.123456\r\nSTAT bytes 1024\r\nEND\r\n")

	client, err := NewMemcachedClient(addr, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	stats, err := client.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"pid":           "42",
		"version":       "1.6.21",
		"rusage_system": "0.123456",
		"bytes":         "1024",
	}, stats)
}

func TestMemcachedClient_ServerError(t *testing.T) {
	addr := fakeMemcached(t, "SERVER_ERROR out of memory\r\n")

	client, err := NewMemcachedClient(addr, nil)
	require.NoError(t, err)

	_, err = client.GetStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_ERROR")
}

func TestMemcachedClient_Truncated(t *testing.T) {
	addr := fakeMemcached(t, "STAT pid 42\r\n")

	client, err := NewMemcachedClient(addr, nil)
	require.NoError(t, err)

	_, err = client.GetStats(context.Background())
	require.Error(t, err)
}

func TestMemcachedClient_Timeout(t *testing.T) {
	addr := fakeMemcached(t, "")

	client, err := NewMemcachedClient(addr, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.GetStats(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestMemcachedClient_Connrefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	client, err := NewMemcachedClient(addr, nil)
	require.NoError(t, err)

	_, err = client.GetStats(context.Background())
	assert.Error(t, err)
}

func TestNewMemcachedClient_Addr(t *testing.T) {
	c, err := NewMemcachedClient("cache1", nil)
	require.NoError(t, err)
	assert.Equal(t, "cache1:11211", c.(*MemcachedClient).addr)
	assert.Equal(t, "tcp", c.(*MemcachedClient).network)

	c, err = NewMemcachedClient("unix:/var/run/memcached.sock", nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/run/memcached.sock", c.(*MemcachedClient).addr)
	assert.Equal(t, "unix", c.(*MemcachedClient).network)

	_, err = NewMemcachedClient("", nil)
	assert.Error(t, err)
}
