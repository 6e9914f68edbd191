package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"contactledger/internal/ratelimit/models"
)

// allowScript trims the window, then admits the request only if the sorted
// set still has room. Scores are unix milliseconds.
//
// KEYS[1] bucket, ARGV[1] now ms, ARGV[2] window ms, ARGV[3] limit, ARGV[4] member
// Returns {allowed, count, oldest score}.
var allowScript = redis.NewScript(`
local cutoff = tonumber(ARGV[1]) - tonumber(ARGV[2])
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', cutoff)
local count = redis.call('ZCARD', KEYS[1])
local allowed = 0
if count < tonumber(ARGV[3]) then
  redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  count = count + 1
  allowed = 1
end
local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
local first = ARGV[1]
if oldest[2] then first = oldest[2] end
return {allowed, count, first}
`)

// RedisStore shares sliding windows between nodes using one sorted set per bucket.
type RedisStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, clock: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	now := s.clock()
	res, err := allowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check %s: %w", key, err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit check %s: unexpected reply %v", key, res)
	}

	allowed, _ := res[0].(int64)
	count, _ := res[1].(int64)
	oldest, err := scoreMillis(res[2])
	if err != nil {
		return nil, fmt.Errorf("rate limit check %s: %w", key, err)
	}
	resetAt := time.UnixMilli(oldest).Add(window)

	if allowed != 1 {
		return denied(limit, now, resetAt), nil
	}
	return &models.Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: max(limit-int(count), 0),
		ResetAt:   resetAt,
	}, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("rate limit reset %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Count(ctx context.Context, key string, window time.Duration) (int, error) {
	cutoff := strconv.FormatInt(s.clock().Add(-window).UnixMilli(), 10)
	n, err := s.client.ZCount(ctx, key, "("+cutoff, "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit count %s: %w", key, err)
	}
	return int(n), nil
}

// scoreMillis reads a score that Lua may hand back as a string or integer.
func scoreMillis(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("parse score %q: %w", t, err)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("unexpected score type %T", v)
	}
}
