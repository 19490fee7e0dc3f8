package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// counts hits in the current window; the first hit starts the window's TTL
var windowHits = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisRateLimiter allows max requests per client per window, counted in
// Redis so every instance shares the count. Bounds are checked by config.
type RedisRateLimiter struct {
	rdb    redis.Scripter
	max    int64
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(rdb redis.Scripter, max int, window time.Duration, prefix string) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, max: int64(max), window: window, prefix: prefix}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := windowHits.Run(ctx, rl.rdb, []string{rl.prefix + ":" + key}, rl.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("redis window count: %w", err)
	}
	return n <= rl.max, nil
}
