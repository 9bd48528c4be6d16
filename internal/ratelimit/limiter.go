package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter throttles OTP requests per client identity (IP address). This is
// network-level abuse detection and is deliberately separate from the
// per-account lockout: a locked account and a throttled IP are different
// failure modes with different responses.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// New creates a limiter allowing max requests per window per identity.
// A nil redis client disables limiting (graceful degradation, same as the
// cache layer).
func New(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, max: max, window: window}
}

// Allow reports whether the identity may make another request, counting
// this one. Redis errors fail open: an unreachable limiter must not take
// down signup.
func (l *Limiter) Allow(ctx context.Context, identity string) (bool, error) {
	if l.client == nil || identity == "" {
		return true, nil
	}

	key := fmt.Sprintf("otp:ratelimit:%s", identity)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}

	return count <= int64(l.max), nil
}

// Reset clears the counter for one identity (admin action)
func (l *Limiter) Reset(ctx context.Context, identity string) error {
	if l.client == nil {
		return nil
	}
	return l.client.Del(ctx, fmt.Sprintf("otp:ratelimit:%s", identity)).Err()
}
