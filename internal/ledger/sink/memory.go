// Package sink holds ledger event sinks.
package sink

import (
	"context"
	"sync"

	"contactledger/internal/ledger"
)

// InMemory records events in order. Used when no broker is configured and
// in tests.
type InMemory struct {
	mu     sync.RWMutex
	events []ledger.Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Publish(_ context.Context, event ledger.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything published.
func (s *InMemory) Events() []ledger.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Event, len(s.events))
	copy(out, s.events)
	return out
}

// ListByType filters the snapshot.
func (s *InMemory) ListByType(t ledger.EventType) []ledger.Event {
	var out []ledger.Event
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
