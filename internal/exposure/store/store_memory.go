package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"contactledger/internal/exposure"
	id "contactledger/pkg/domain"
)

type noticeKey struct {
	subject id.Identity
	via     id.Identity
}

// InMemory keeps notices keyed by (subject, via).
type InMemory struct {
	mu      sync.RWMutex
	notices map[noticeKey]*exposure.Notice
}

func NewInMemory() *InMemory {
	return &InMemory{notices: make(map[noticeKey]*exposure.Notice)}
}

// Record returns how many notices were new.
func (s *InMemory) Record(_ context.Context, via id.Identity, subjects []id.Identity, when time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, subject := range subjects {
		k := noticeKey{subject: subject, via: via}
		if _, ok := s.notices[k]; ok {
			continue
		}
		s.notices[k] = &exposure.Notice{Subject: subject, Via: via, NotifiedAt: when}
		added++
	}
	return added, nil
}

func (s *InMemory) ListBySubject(_ context.Context, subject id.Identity) ([]*exposure.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*exposure.Notice
	for k, n := range s.notices {
		if k.subject == subject {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NotifiedAt.Before(out[j].NotifiedAt)
	})
	return out, nil
}
