package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"contactledger/internal/contacts"
	id "contactledger/pkg/domain"
	"contactledger/pkg/platform/sentinel"
)

// InMemory is a double-keyed map: first key is the reporting identity,
// second key the contact.
type InMemory struct {
	mu    sync.RWMutex
	edges map[id.Identity]map[id.Identity]*contacts.Contact
}

func NewInMemory() *InMemory {
	return &InMemory{edges: make(map[id.Identity]map[id.Identity]*contacts.Contact)}
}

// Insert upserts the (a, b) edge.
func (s *InMemory) Insert(_ context.Context, a, b id.Identity, when time.Time) (*contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inner, ok := s.edges[a]
	if !ok {
		inner = make(map[id.Identity]*contacts.Contact)
		s.edges[a] = inner
	}
	c := &contacts.Contact{ID: a, ContactID: b, Timestamp: when}
	inner[b] = c
	out := *c
	return &out, nil
}

func (s *InMemory) Get(_ context.Context, a, b id.Identity) (*contacts.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.edges[a][b]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *c
	return &out, nil
}

// ListByID returns every contact reported by a, oldest first.
func (s *InMemory) ListByID(_ context.Context, a id.Identity) ([]*contacts.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inner := s.edges[a]
	out := make([]*contacts.Contact, 0, len(inner))
	for _, c := range inner {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ContactID.String() < out[j].ContactID.String()
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}
