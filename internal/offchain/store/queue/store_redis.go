package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"contactledger/internal/offchain/models"
)

// drainScript appends pending onto the in-flight list, rotates the token and
// returns {token, item...}. An empty in-flight list returns {""}.
var drainScript = redis.NewScript(`
local pending = redis.call('LRANGE', KEYS[1], 0, -1)
for i = 1, #pending, 1000 do
  redis.call('RPUSH', KEYS[2], unpack(pending, i, math.min(i + 999, #pending)))
end
redis.call('DEL', KEYS[1])
local items = redis.call('LRANGE', KEYS[2], 0, -1)
if #items == 0 then
  redis.call('DEL', KEYS[3])
  return {''}
end
redis.call('SET', KEYS[3], ARGV[1])
table.insert(items, 1, ARGV[1])
return items
`)

// ackScript deletes the in-flight batch only if the token still matches.
var ackScript = redis.NewScript(`
if redis.call('GET', KEYS[2]) == ARGV[1] then
  redis.call('DEL', KEYS[1], KEYS[2])
  return 1
end
return 0
`)

// deadLetterScript moves one in-flight entry to the dead-letter list.
var deadLetterScript = redis.NewScript(`
local n = redis.call('LREM', KEYS[1], 1, ARGV[1])
if n > 0 then
  redis.call('RPUSH', KEYS[2], ARGV[1])
end
return n
`)

// RedisQueue shares the queue between nodes.
type RedisQueue struct {
	client *redis.Client
	logger *slog.Logger
}

type RedisOption func(*RedisQueue)

func WithLogger(logger *slog.Logger) RedisOption {
	return func(q *RedisQueue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisQueue {
	q := &RedisQueue{client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *RedisQueue) Enqueue(ctx context.Context, req models.Request) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, PendingKey, raw).Err()
}

func (q *RedisQueue) DrainAll(ctx context.Context) (*models.Batch, error) {
	res, err := drainScript.Run(ctx, q.client,
		[]string{PendingKey, InflightKey, TokenKey},
		uuid.NewString(),
	).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("drain queue: %w", err)
	}
	if len(res) == 0 || res[0] == "" {
		return &models.Batch{}, nil
	}
	batch := &models.Batch{Token: res[0], Requests: make([]models.Request, 0, len(res)-1)}
	for _, item := range res[1:] {
		var req models.Request
		if err := json.Unmarshal([]byte(item), &req); err != nil {
			if err := q.deadLetter(ctx, item, err); err != nil {
				return nil, err
			}
			continue
		}
		batch.Requests = append(batch.Requests, req)
	}
	return batch, nil
}

// deadLetter parks an undecodable entry so it stops blocking every drain.
func (q *RedisQueue) deadLetter(ctx context.Context, item string, cause error) error {
	if err := deadLetterScript.Run(ctx, q.client, []string{InflightKey, DeadKey}, item).Err(); err != nil {
		return fmt.Errorf("dead-letter queued request: %w", err)
	}
	q.logger.ErrorContext(ctx, "undecodable queued request moved to dead letters",
		"key", DeadKey,
		"entry", item,
		"error", cause,
	)
	return nil
}

func (q *RedisQueue) Ack(ctx context.Context, batch *models.Batch) error {
	if batch == nil || batch.Token == "" {
		return nil
	}
	n, err := ackScript.Run(ctx, q.client, []string{InflightKey, TokenKey}, batch.Token).Int()
	if err != nil {
		return fmt.Errorf("ack batch: %w", err)
	}
	if n == 0 {
		return ErrBatchSuperseded
	}
	return nil
}

func (q *RedisQueue) Len(ctx context.Context) (pending, inflight int, err error) {
	pipe := q.client.Pipeline()
	p := pipe.LLen(ctx, PendingKey)
	f := pipe.LLen(ctx, InflightKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("queue length: %w", err)
	}
	return int(p.Val()), int(f.Val()), nil
}
