package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"contactledger/internal/flags"
	id "contactledger/pkg/domain"
	"contactledger/pkg/platform/sentinel"
)

// InMemory holds one flag per identity.
type InMemory struct {
	mu    sync.RWMutex
	flags map[id.Identity]*flags.Flag
}

func NewInMemory() *InMemory {
	return &InMemory{flags: make(map[id.Identity]*flags.Flag)}
}

// Set overwrites any prior flag for the identity.
func (s *InMemory) Set(_ context.Context, identity id.Identity, flagType id.FlagType, when time.Time) (*flags.Flag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ft := flagType
	f := &flags.Flag{ID: identity, FlagType: &ft, Timestamp: when}
	s.flags[identity] = f
	return copyFlag(f), nil
}

func (s *InMemory) Get(_ context.Context, identity id.Identity) (*flags.Flag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.flags[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyFlag(f), nil
}

// IsExposed is false when no flag exists.
func (s *InMemory) IsExposed(ctx context.Context, identity id.Identity) (bool, error) {
	f, err := s.Get(ctx, identity)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return f.Exposed(), nil
}

func copyFlag(f *flags.Flag) *flags.Flag {
	out := *f
	if f.FlagType != nil {
		ft := *f.FlagType
		out.FlagType = &ft
	}
	return &out
}
