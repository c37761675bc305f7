package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidly/rental-system/internal/core/ports"
)

// Token bucket kept in a hash: tokens and last_refill_ms. Whole refill
// intervals elapsed since last_refill add one token each, capped at capacity.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// LoginLimiter is a ports.RateLimiter that throttles login attempts per key with a Redis token bucket.
type LoginLimiter struct {
	client   *redis.Client
	prefix   string
	capacity int
	refill   time.Duration
	now      func() time.Time
}

// NewLoginLimiter allows capacity attempts in a burst and one more per refill.
func NewLoginLimiter(client *redis.Client, capacity int, refill time.Duration) *LoginLimiter {
	if capacity < 1 {
		capacity = 1
	}
	if refill <= 0 {
		refill = time.Second
	}
	return &LoginLimiter{
		client:   client,
		prefix:   "rl:login",
		capacity: capacity,
		refill:   refill,
		now:      time.Now,
	}
}

// Limit is the bucket capacity.
func (l *LoginLimiter) Limit() int {
	return l.capacity
}

// Allow takes one token from key's bucket.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	ttl := 5 * time.Duration(l.capacity) * l.refill
	args := []interface{}{
		l.now().UnixMilli(),
		l.capacity,
		l.refill.Milliseconds(),
		int64(ttl / time.Second),
	}

	vals, err := tokenBucketScript.Run(ctx, l.client, []string{l.prefix + ":" + key}, args...).Slice()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return parseDecision(vals)
}

func parseDecision(vals []interface{}) (ports.RateDecision, error) {
	if len(vals) != 3 {
		return ports.RateDecision{}, fmt.Errorf("rate limit: unexpected script result %#v", vals)
	}
	return ports.RateDecision{
		Allowed:    asInt64(vals[0]) == 1,
		Remaining:  asInt64(vals[1]),
		RetryAfter: time.Duration(asInt64(vals[2])) * time.Millisecond,
	}, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
