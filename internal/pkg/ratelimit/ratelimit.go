// Package ratelimit provides a Redis-backed fixed-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per key in fixed windows. It fails open: if Redis
// is unreachable the request is allowed, since rate limiting is protection
// for the database, not a correctness requirement.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// New creates a limiter allowing limit requests per key per window.
func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow reports whether the request identified by key fits in the current
// window. The counter key carries the window number so stale windows expire
// on their own.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	n, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return true, fmt.Errorf("incr %s: %w", bucket, err)
	}
	if n == 1 {
		// First hit in this window; bound the key's lifetime.
		if err := l.client.Expire(ctx, bucket, l.window).Err(); err != nil {
			return true, fmt.Errorf("expire %s: %w", bucket, err)
		}
	}
	return n <= int64(l.limit), nil
}
