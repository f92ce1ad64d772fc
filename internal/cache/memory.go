package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre patrickmn/go-cache.
// Útil para desarrollo y testing; no es distribuido.
type memoryClient struct {
	prefix string
	c      *gocache.Cache

	// go-cache no expone incremento atómico con seteo de TTL inicial,
	// así que Increment/SetNX serializan con este mutex.
	mu sync.Mutex
}

func newMemory(cfg Config) *memoryClient {
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &memoryClient{
		prefix: cfg.Prefix,
		c:      gocache.New(ttl, time.Minute),
	}
}

func (m *memoryClient) key(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + ":" + k
}

func ttlOrNoExpiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.c.Set(m.key(key), value, ttlOrNoExpiration(ttl))
	return nil
}

func (m *memoryClient) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.c.Get(m.key(key)); ok {
		return false, nil
	}
	m.c.Set(m.key(key), value, ttlOrNoExpiration(ttl))
	return true, nil
}

func (m *memoryClient) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(key)
	if v, ok := m.c.Get(k); ok {
		n, _ := strconv.ParseInt(v.(string), 10, 64)
		n++
		// Conservar la expiración de la ventana vigente.
		if _, exp, ok2 := m.c.GetWithExpiration(k); ok2 && !exp.IsZero() {
			m.c.Set(k, strconv.FormatInt(n, 10), time.Until(exp))
		} else {
			m.c.Set(k, strconv.FormatInt(n, 10), gocache.NoExpiration)
		}
		return n, nil
	}
	m.c.Set(k, "1", ttlOrNoExpiration(ttl))
	return 1, nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
