package backend

import (
	"net/url"
	"strings"
)

// BackendURI — разобранная строка вида scheme://host1;host2?key=value.
// После ParseURI не изменяется.
type BackendURI struct {
	Scheme string
	Hosts  []string
	Params map[string]string
}

// ParseURI разбирает конфигурационную строку бэкенда кэша.
// Пустые сегменты между ';' сохраняются как есть: решать, что с ними делать, будет Registry.
func ParseURI(uri string) (*BackendURI, error) {
	scheme, rest, found := strings.Cut(uri, ":")
	if !found {
		return nil, &ConfigError{URI: uri, Reason: "backend uri must start with scheme://"}
	}
	if !strings.HasPrefix(rest, "//") {
		return nil, &ConfigError{URI: uri, Reason: "backend uri must start with scheme://"}
	}
	if scheme == "" {
		return nil, &ConfigError{URI: uri, Reason: "scheme is empty"}
	}

	hostPart, query, hasQuery := strings.Cut(rest[2:], "?")

	params := make(map[string]string)
	if hasQuery {
		values, err := url.ParseQuery(query)
		if err != nil {
			return nil, &ConfigError{URI: uri, Reason: "malformed query string", Cause: err}
		}
		// Как в обычном query string: при дублях побеждает последнее значение
		for k, v := range values {
			params[k] = v[len(v)-1]
		}
	}

	// Завершающий "/" срезается у каждого хоста, пустые элементы сохраняются
	hosts := strings.Split(hostPart, ";")
	for i, h := range hosts {
		hosts[i] = strings.TrimSuffix(h, "/")
	}

	return &BackendURI{
		Scheme: scheme,
		Hosts:  hosts,
		Params: params,
	}, nil
}

// Key строит составной ключ реестра scheme://host?params для одного хоста.
func (u *BackendURI) Key(host string) string {
	q := u.encodeParams()
	if q == "" {
		return u.Scheme + "://" + host
	}
	return u.Scheme + "://" + host + "?" + q
}

// String возвращает каноническую форму URI (параметры отсортированы).
func (u *BackendURI) String() string {
	return u.Key(strings.Join(u.Hosts, ";"))
}

func (u *BackendURI) encodeParams() string {
	if len(u.Params) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range u.Params {
		values.Set(k, v)
	}
	// Encode сортирует ключи, так что ключ реестра стабилен
	return values.Encode()
}
