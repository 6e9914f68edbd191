package queue

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"contactledger/internal/offchain/models"
)

// InMemory is a process-local queue.
type InMemory struct {
	mu       sync.Mutex
	pending  []models.Request
	inflight *models.Batch
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (q *InMemory) Enqueue(_ context.Context, req models.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, req)
	return nil
}

func (q *InMemory) DrainAll(_ context.Context) (*models.Batch, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var requests []models.Request
	if q.inflight != nil {
		requests = append(requests, q.inflight.Requests...)
	}
	requests = append(requests, q.pending...)
	q.pending = nil

	if len(requests) == 0 {
		q.inflight = nil
		return &models.Batch{}, nil
	}
	q.inflight = &models.Batch{Token: uuid.NewString(), Requests: requests}
	return copyBatch(q.inflight), nil
}

func (q *InMemory) Ack(_ context.Context, batch *models.Batch) error {
	if batch == nil || batch.Token == "" {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.inflight == nil || q.inflight.Token != batch.Token {
		return ErrBatchSuperseded
	}
	q.inflight = nil
	return nil
}

func (q *InMemory) Len(_ context.Context) (pending, inflight int, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.inflight != nil {
		inflight = len(q.inflight.Requests)
	}
	return len(q.pending), inflight, nil
}

func copyBatch(b *models.Batch) *models.Batch {
	out := &models.Batch{Token: b.Token, Requests: make([]models.Request, len(b.Requests))}
	copy(out.Requests, b.Requests)
	return out
}
