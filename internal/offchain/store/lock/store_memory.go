package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type held struct {
	token     string
	expiresAt time.Time
}

// InMemory is a process-local lease lock.
type InMemory struct {
	mu    sync.Mutex
	locks map[string]held
	clock func() time.Time
}

// InMemoryOption configures an InMemory locker.
type InMemoryOption func(*InMemory)

// WithClock injects the time source used for lease expiry.
func WithClock(clock func() time.Time) InMemoryOption {
	return func(l *InMemory) {
		if clock != nil {
			l.clock = clock
		}
	}
}

func NewInMemory(opts ...InMemoryOption) *InMemory {
	l := &InMemory{locks: make(map[string]held), clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *InMemory) TryLock(_ context.Context, name string, ttl time.Duration) (*Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if h, ok := l.locks[name]; ok && now.Before(h.expiresAt) {
		return nil, ErrUnavailable(name)
	}
	lease := &Lease{Name: name, Token: uuid.NewString(), ExpiresAt: now.Add(ttl)}
	l.locks[name] = held{token: lease.Token, expiresAt: lease.ExpiresAt}
	return lease, nil
}

// Release is a no-op when the lease already expired and was taken over.
func (l *InMemory) Release(_ context.Context, lease *Lease) error {
	if lease == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if h, ok := l.locks[lease.Name]; ok && h.token == lease.Token {
		delete(l.locks, lease.Name)
	}
	return nil
}
