package checkpoint

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

var commitScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
  local n = tonumber(cur)
  if n ~= nil and n >= tonumber(ARGV[1]) then
    return 0
  end
end
redis.call('SET', KEYS[1], ARGV[1])
return 1
`)

// RedisStore keeps the checkpoint in a Redis string.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context) (id.EpochNumber, bool, error) {
	raw, err := s.client.Get(ctx, Key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, dErrors.Wrap(err, dErrors.CodeCheckpointRead, "read checkpoint")
	}
	epoch, err := Decode(raw)
	if err != nil {
		return 0, true, err
	}
	return epoch, true, nil
}

func (s *RedisStore) Commit(ctx context.Context, epoch id.EpochNumber) error {
	if err := commitScript.Run(ctx, s.client, []string{Key}, Encode(epoch)).Err(); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return nil
}
