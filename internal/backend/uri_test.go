package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		scheme string
		hosts  []string
		params map[string]string
	}{
		{
			name:   "multiple hosts with params",
			uri:    "memcached://h1;h2?x=1",
			scheme: "memcached",
			hosts:  []string{"h1", "h2"},
			params: map[string]string{"x": "1"},
		},
		{
			name:   "trailing slash",
			uri:    "memcached://h1/",
			scheme: "memcached",
			hosts:  []string{"h1"},
			params: map[string]string{},
		},
		{
			name:   "ports and trailing slash before query",
			uri:    "redis://10.0.0.1:6379;10.0.0.2:6380/?db=2&password=secret",
			scheme: "redis",
			hosts:  []string{"10.0.0.1:6379", "10.0.0.2:6380"},
			params: map[string]string{"db": "2", "password": "secret"},
		},
		{
			name:   "duplicate param last wins",
			uri:    "memcached://h1?timeout=1&timeout=3",
			scheme: "memcached",
			hosts:  []string{"h1"},
			params: map[string]string{"timeout": "3"},
		},
		{
			name:   "empty segment preserved",
			uri:    "memcached://;h2",
			scheme: "memcached",
			hosts:  []string{"", "h2"},
			params: map[string]string{},
		},
		{
			name:   "only one trailing slash stripped",
			uri:    "memcached://h1//",
			scheme: "memcached",
			hosts:  []string{"h1/"},
			params: map[string]string{},
		},
		{
			name:   "trailing slash stripped per host",
			uri:    "memcached://h1/;h2/;h3",
			scheme: "memcached",
			hosts:  []string{"h1", "h2", "h3"},
			params: map[string]string{},
		},
		{
			name:   "slash-only segment becomes empty",
			uri:    "memcached://h1;/",
			scheme: "memcached",
			hosts:  []string{"h1", ""},
			params: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, u.Scheme)
			assert.Equal(t, tt.hosts, u.Hosts)
			assert.Equal(t, tt.params, u.Params)
		})
	}
}

func TestParseURI_Invalid(t *testing.T) {
	for _, uri := range []string{"badstring", "memcached:/h1", "://h1", "memcached://h1?a=%zz"} {
		t.Run(uri, func(t *testing.T) {
			u, err := ParseURI(uri)
			assert.Nil(t, u)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, uri, cfgErr.URI)
		})
	}
}

func TestBackendURI_Key(t *testing.T) {
	u, err := ParseURI("redis://h1;h2?password=p&db=1")
	require.NoError(t, err)

	assert.Equal(t, "redis://h1?db=1&password=p", u.Key("h1"))
	assert.Equal(t, "redis://h1;h2?db=1&password=p", u.String())

	plain, err := ParseURI("memcached://h1/")
	require.NoError(t, err)
	assert.Equal(t, "memcached://h1", plain.Key("h1"))

	// Ключ хоста снова разбирается в тот же хост
	again, err := ParseURI(u.Key("h2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"h2"}, again.Hosts)
	assert.Equal(t, u.Params, again.Params)
}
