package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "taskhub:ratelimit:"

// RedisFixedWindow shares counters across replicas. Windows are aligned to
// multiples of the window length, so a key's first window may be shorter.
type RedisFixedWindow struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisFixedWindow(rdb *redis.Client, limit int, window time.Duration) *RedisFixedWindow {
	return &RedisFixedWindow{
		rdb:    rdb,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *RedisFixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	slot := now.UnixNano() / int64(r.window)
	windowEnd := time.Unix(0, (slot+1)*int64(r.window))
	redisKey := fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, slot)

	var incr *redis.IntCmd

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.PExpireAt(ctx, redisKey, windowEnd)
		return nil
	})

	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}

	if incr.Val() > int64(r.limit) {
		return Decision{RetryAfter: windowEnd.Sub(now)}, nil
	}

	return Decision{Allowed: true}, nil
}
