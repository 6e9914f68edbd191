package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	dErrors "contactledger/pkg/domain-errors"
)

// TxRunner provides the transactional boundary of a command. Stores used
// inside fn join the transaction through ctx.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// numShards spreads commands on different identities over separate locks.
const numShards = 128

// DefaultTxTimeout bounds a command transaction without its own deadline.
const DefaultTxTimeout = 5 * time.Second

// ShardedTx serialises in-memory commands that touch the same identity.
type ShardedTx struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

func NewShardedTx() *ShardedTx {
	return &ShardedTx{timeout: DefaultTxTimeout}
}

func (t *ShardedTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := selectShard(ctx)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

type txKey struct{}

// WithTxKey names the entity a transaction mutates so unrelated commands
// do not contend.
func WithTxKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, txKey{}, key)
}

func selectShard(ctx context.Context) int {
	key, ok := ctx.Value(txKey{}).(string)
	if !ok || key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % numShards)
}
