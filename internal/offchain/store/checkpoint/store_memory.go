package checkpoint

import (
	"context"
	"sync"

	id "contactledger/pkg/domain"
)

// InMemory stores the checkpoint in its encoded form so corrupt values can
// be simulated.
type InMemory struct {
	mu  sync.Mutex
	raw *string
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Get(_ context.Context) (id.EpochNumber, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw == nil {
		return 0, false, nil
	}
	epoch, err := Decode(*s.raw)
	if err != nil {
		return 0, true, err
	}
	return epoch, true, nil
}

func (s *InMemory) Commit(_ context.Context, epoch id.EpochNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw != nil {
		if cur, err := Decode(*s.raw); err == nil && cur >= epoch {
			return nil
		}
	}
	v := Encode(epoch)
	s.raw = &v
	return nil
}

// SetRaw overwrites the stored value verbatim.
func (s *InMemory) SetRaw(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = &raw
}
