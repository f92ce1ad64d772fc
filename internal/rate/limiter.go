// Package rate implementa un rate limiter de ventana fija sobre el cache del
// portal. Se usa en el POST de login para frenar fuerza bruta de credenciales.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tourcube/guideportal/internal/cache"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// FixedWindowLimiter: ventana fija sencilla (INCR + TTL) sobre cache.Client.
// Con backend redis el límite es compartido entre réplicas.
type FixedWindowLimiter struct {
	Cache  cache.Client
	Prefix string
	Max    int64
	Window time.Duration
}

func NewFixedWindowLimiter(c cache.Client, prefix string, max int, window time.Duration) *FixedWindowLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &FixedWindowLimiter{
		Cache:  c,
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
	}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	cacheKey := fmt.Sprintf("%s:%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, err := l.Cache.Increment(ctx, cacheKey, l.Window)
	if err != nil {
		return Result{}, err
	}

	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !allowed {
		// Retry after: resto de la ventana vigente.
		res.RetryAfter = winStart.Add(l.Window).Sub(now)
		if res.RetryAfter < 0 {
			res.RetryAfter = l.Window
		}
	}
	return res, nil
}
