//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"contactledger/internal/platform/config"
	platformredis "contactledger/internal/platform/redis"
)

// RedisContainer backs the queue, lock, checkpoint, pool and rate limit
// suites. Its client comes from the server's own constructor with the
// default pool and timeout settings.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *redis.Client
}

func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis connection string: %v", err)
	}

	cfg := config.FromEnv().Redis
	cfg.URL = url
	client, err := platformredis.New(cfg)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("connect to redis container: %v", err)
	}

	// shared through the Manager; Ryuk removes it when the binary exits
	return &RedisContainer{Container: container, URL: url, Client: client.Client}
}

// Reset empties the database between tests.
func (r *RedisContainer) Reset(ctx context.Context) error {
	return r.Client.FlushDB(ctx).Err()
}

// List returns every entry of the list at key.
func (r *RedisContainer) List(ctx context.Context, key string) ([]string, error) {
	return r.Client.LRange(ctx, key, 0, -1).Result()
}
