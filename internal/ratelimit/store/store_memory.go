package store

import (
	"context"
	"sync"
	"time"

	"contactledger/internal/ratelimit/models"
)

// MemoryStore is a process-local sliding window. Each node keeps its own
// counts, so limits are per node when several servers run.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	clock   func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock injects a time source for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewMemory(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		buckets: make(map[string][]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records one request against key when the window has room.
func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	stamps := prune(s.buckets[key], now.Add(-window))

	if len(stamps) >= limit {
		s.buckets[key] = stamps
		return denied(limit, now, stamps[0].Add(window)), nil
	}

	stamps = append(stamps, now)
	s.buckets[key] = stamps
	return &models.Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(stamps),
		ResetAt:   stamps[0].Add(window),
	}, nil
}

// Reset clears the history for key.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// Count returns the number of requests still inside the window.
func (s *MemoryStore) Count(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamps := prune(s.buckets[key], s.clock().Add(-window))
	if len(stamps) == 0 {
		delete(s.buckets, key)
		return 0, nil
	}
	s.buckets[key] = stamps
	return len(stamps), nil
}

// prune drops timestamps at or before cutoff. Stamps are appended in order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}
