// Package actions applies drained offchain requests. Every action is
// idempotent: applying a request twice leaves the same state as once.
package actions

import (
	"context"
	"fmt"

	"contactledger/internal/offchain/models"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

// ExposurePropagator handles FlagID.
type ExposurePropagator interface {
	Propagate(ctx context.Context, flagged id.Identity) error
}

// PoolRegistry handles AddToUUIDPool.
type PoolRegistry interface {
	Add(ctx context.Context, external id.ExternalID) error
}

// Dispatcher routes each request kind to its action.
type Dispatcher struct {
	exposure ExposurePropagator
	pool     PoolRegistry
}

func NewDispatcher(exposure ExposurePropagator, pool PoolRegistry) *Dispatcher {
	return &Dispatcher{exposure: exposure, pool: pool}
}

func (d *Dispatcher) Apply(ctx context.Context, req models.Request) error {
	switch req.Kind {
	case models.KindFlagID:
		if err := d.exposure.Propagate(ctx, req.Identity); err != nil {
			return fmt.Errorf("flag_id %s: %w", req.Identity, err)
		}
	case models.KindAddToUUIDPool:
		if err := d.pool.Add(ctx, req.External); err != nil {
			return fmt.Errorf("add_to_uuid_pool %s: %w", req.External, err)
		}
	default:
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown request kind %q", req.Kind))
	}
	return nil
}
