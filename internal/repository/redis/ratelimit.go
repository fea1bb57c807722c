package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// joinWindowScript keeps one sorted-set member per hit, scored by its time in
// milliseconds. It returns {allowed, hits, retry_ms}.
//
//	KEYS[1] hit log
//	ARGV[1] now, ARGV[2] window, ARGV[3] limit, ARGV[4] hit id
const joinWindowScript = `
local log = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', log, 0, now - window)
redis.call('ZADD', log, 'NX', now, ARGV[4])
redis.call('PEXPIRE', log, window)

local hits = redis.call('ZCARD', log)
if hits <= limit then
  return {1, hits, 0}
end

local oldest = redis.call('ZRANGE', log, 0, 0, 'WITHSCORES')
local since = now - (tonumber(oldest[2]) or (now - window))
return {0, hits, math.max(window - since, 0)}
`

// SlidingWindowLimiter allows at most limit hits per client within window.
// Hit logs are shared by every instance so a client cannot dodge the limit by
// landing on another process.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
	script *redis.Script
	now    func() time.Time
}

func NewSlidingWindowLimiter(
	rdb *redis.Client,
	scope string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
		script: redis.NewScript(joinWindowScript),
		now:    time.Now,
	}
}

// KeyRateLimit names the hit log of client id within scope.
func KeyRateLimit(scope, id string) string {
	return ns + ":rl:" + scope + ":" + id
}

// Allow records one hit for id and reports whether it fits in the window.
// When it does not, retryAfter is how long until the oldest hit expires.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, id string) (bool, int64, time.Duration, error) {
	const op = "redis.SlidingWindowLimiter.Allow"

	res, err := l.script.Run(
		ctx,
		l.rdb,
		[]string{KeyRateLimit(l.scope, id)},
		l.now().UnixMilli(), l.window.Milliseconds(), l.limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return false, 0, 0, fmt.Errorf("%s:%w", op, err)
	}

	if len(res) != 3 {
		return false, 0, 0, fmt.Errorf("%s: unexpected reply of %d values", op, len(res))
	}

	return res[0] == 1, res[1], time.Duration(res[2]) * time.Millisecond, nil
}
