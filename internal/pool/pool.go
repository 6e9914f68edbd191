// Package pool tracks the external ids that have been issued through
// generate_id. Membership is a set; adding twice is a no-op.
package pool

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	id "contactledger/pkg/domain"
)

// Key is the Redis set holding pool members.
const Key = "contact_tracing::uuid_pool"

// Registry is the uuid pool.
type Registry interface {
	Add(ctx context.Context, external id.ExternalID) error
	Contains(ctx context.Context, external id.ExternalID) (bool, error)
	Size(ctx context.Context) (int, error)
}

// InMemory is a mutex-guarded set.
type InMemory struct {
	mu      sync.RWMutex
	members map[id.ExternalID]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{members: make(map[id.ExternalID]struct{})}
}

func (p *InMemory) Add(_ context.Context, external id.ExternalID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members[external] = struct{}{}
	return nil
}

func (p *InMemory) Contains(_ context.Context, external id.ExternalID) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.members[external]
	return ok, nil
}

func (p *InMemory) Size(_ context.Context) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members), nil
}

// Members returns a sorted snapshot.
func (p *InMemory) Members() []id.ExternalID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]id.ExternalID, 0, len(p.members))
	for m := range p.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Redis stores the pool in a Redis set.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, key: Key}
}

func (p *Redis) Add(ctx context.Context, external id.ExternalID) error {
	return p.client.SAdd(ctx, p.key, string(external)).Err()
}

func (p *Redis) Contains(ctx context.Context, external id.ExternalID) (bool, error) {
	return p.client.SIsMember(ctx, p.key, string(external)).Result()
}

func (p *Redis) Size(ctx context.Context) (int, error) {
	n, err := p.client.SCard(ctx, p.key).Result()
	return int(n), err
}
