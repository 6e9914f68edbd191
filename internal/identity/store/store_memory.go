package store

import (
	"context"
	"sync"

	"contactledger/internal/identity"
	id "contactledger/pkg/domain"
	"contactledger/pkg/platform/sentinel"
)

// InMemory keeps identity records in two indexes guarded by one lock.
type InMemory struct {
	mu         sync.RWMutex
	byExternal map[id.ExternalID]*identity.Record
	byIdentity map[id.Identity]*identity.Record
}

func NewInMemory() *InMemory {
	return &InMemory{
		byExternal: make(map[id.ExternalID]*identity.Record),
		byIdentity: make(map[id.Identity]*identity.Record),
	}
}

func (s *InMemory) Create(_ context.Context, rec *identity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byExternal[rec.ExternalID]; ok {
		return sentinel.ErrConflict
	}
	stored := *rec
	s.byExternal[rec.ExternalID] = &stored
	s.byIdentity[rec.Identity] = &stored
	return nil
}

func (s *InMemory) FindByExternal(_ context.Context, external id.ExternalID) (*identity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byExternal[external]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (s *InMemory) FindByIdentity(_ context.Context, internal id.Identity) (*identity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byIdentity[internal]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *rec
	return &out, nil
}
