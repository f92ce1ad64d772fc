package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// redisClient implementa Client sobre go-redis. Backend de producción:
// el rate limit y los tokens consumidos se comparten entre réplicas.
type redisClient struct {
	prefix string
	c      *rdb.Client
}

func newRedis(cfg Config) (*redisClient, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("cache redis: addr vacío")
	}
	return &redisClient{
		prefix: cfg.Prefix,
		c:      rdb.NewClient(&rdb.Options{Addr: cfg.Addr, DB: cfg.DB}),
	}, nil
}

func (r *redisClient) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *redisClient) Get(ctx context.Context, key string) (string, error) {
	v, err := r.c.Get(ctx, r.key(key)).Result()
	if errors.Is(err, rdb.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *redisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.c.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *redisClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return r.c.SetNX(ctx, r.key(key), value, ttl).Result()
}

func (r *redisClient) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	k := r.key(key)
	n, err := r.c.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	// Sólo la primera escritura de la ventana fija el TTL.
	if n == 1 && ttl > 0 {
		if err := r.c.Expire(ctx, k, ttl).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (r *redisClient) Delete(ctx context.Context, key string) error {
	return r.c.Del(ctx, r.key(key)).Err()
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *redisClient) Close() error {
	return r.c.Close()
}
