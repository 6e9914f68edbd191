// Package processor is the offchain notification worker. One call to
// ProcessEpoch is one pass: take the lease, replay the queue once for every
// epoch after the checkpoint up to (not including) the current epoch, then
// advance the checkpoint to the last epoch that completed.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"contactledger/internal/offchain/metrics"
	"contactledger/internal/offchain/models"
	"contactledger/internal/offchain/store/lock"
	"contactledger/internal/offchain/store/queue"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

const logPrefix = "[contact_tracing_ocw]"

// Queue is the drain side of the pending request queue.
type Queue interface {
	DrainAll(ctx context.Context) (*models.Batch, error)
	Ack(ctx context.Context, batch *models.Batch) error
}

// Checkpoint persists the last fully processed epoch.
type Checkpoint interface {
	Get(ctx context.Context) (id.EpochNumber, bool, error)
	Commit(ctx context.Context, epoch id.EpochNumber) error
}

// Locker is the lease lock guarding a pass.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (*lock.Lease, error)
	Release(ctx context.Context, lease *lock.Lease) error
}

// Applier applies one drained request.
type Applier interface {
	Apply(ctx context.Context, req models.Request) error
}

// Outcome classifies a pass.
type Outcome string

const (
	OutcomeLockFailed       Outcome = "lock_failed"
	OutcomeCheckpointError  Outcome = "checkpoint_error"
	OutcomeAlreadyProcessed Outcome = "already_processed"
	OutcomeNoEpochs         Outcome = "no_epochs"
	OutcomeProcessed        Outcome = "processed"
	OutcomePartial          Outcome = "partial"
)

// Result describes one pass. Start and End bound the half-open epoch range.
type Result struct {
	Outcome       Outcome         `json:"outcome"`
	Current       id.EpochNumber  `json:"current"`
	Checkpoint    *id.EpochNumber `json:"checkpoint,omitempty"`
	Start         id.EpochNumber  `json:"start,omitempty"`
	End           id.EpochNumber  `json:"end,omitempty"`
	LastCompleted id.EpochNumber  `json:"last_completed,omitempty"`
	Skipped       uint64          `json:"skipped,omitempty"`
	Committed     bool            `json:"committed"`
	Applied       int             `json:"applied"`
}

// Processor runs passes. It holds no state of its own between passes.
type Processor struct {
	queue      Queue
	checkpoint Checkpoint
	locker     Locker
	applier    Applier
	lockTTL    time.Duration
	backtrack  uint64
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	clock      func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithLockTTL overrides the lease duration.
func WithLockTTL(ttl time.Duration) Option {
	return func(p *Processor) {
		if ttl > 0 {
			p.lockTTL = ttl
		}
	}
}

// WithMaxBacktrack bounds how many epochs one pass replays. Older epochs
// in the range are skipped; the queue they would have drained is still
// drained by the first epoch replayed.
func WithMaxBacktrack(epochs uint64) Option {
	return func(p *Processor) {
		if epochs > 0 {
			p.backtrack = epochs
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(p *Processor) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(p *Processor) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// DefaultLockTTL is the lease held for one pass.
const DefaultLockTTL = 3000 * time.Millisecond

// DefaultMaxBacktrack is the most epochs one pass replays.
const DefaultMaxBacktrack uint64 = 1000

func New(q Queue, cp Checkpoint, locker Locker, applier Applier, opts ...Option) *Processor {
	p := &Processor{
		queue:      q,
		checkpoint: cp,
		locker:     locker,
		applier:    applier,
		lockTTL:    DefaultLockTTL,
		backtrack:  DefaultMaxBacktrack,
		logger:     slog.Default(),
		tracer:     otel.Tracer("contactledger/offchain/processor"),
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// ProcessEpoch runs one pass for the epoch boundary current.
//
// A held lock is a normal outcome and returns a nil error. A checkpoint that
// cannot be read aborts the pass before any mutation. An apply or ack failure
// stops the loop; epochs completed before it are still committed and the
// unacknowledged batch is replayed by the next pass. Cancelling ctx stops the
// loop the same way.
func (p *Processor) ProcessEpoch(ctx context.Context, current id.EpochNumber) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "ocw.process_epoch",
		trace.WithAttributes(attribute.Int64("ocw.current_epoch", int64(current))))
	defer span.End()

	res := Result{Current: current}

	lease, err := p.locker.TryLock(ctx, lock.Name, p.lockTTL)
	if err != nil {
		res.Outcome = OutcomeLockFailed
		p.observe(res)
		if dErrors.HasCode(err, dErrors.CodeLockUnavailable) {
			p.logger.InfoContext(ctx, logPrefix+" lock is already acquired", "epoch", uint64(current))
			return res, nil
		}
		p.logger.WarnContext(ctx, logPrefix+" lock acquisition failed", "epoch", uint64(current), "error", err)
		return res, nil
	}
	defer func() {
		if err := p.locker.Release(context.WithoutCancel(ctx), lease); err != nil {
			p.logger.WarnContext(ctx, logPrefix+" lock release failed", "error", err)
		}
	}()

	started := p.clock()
	defer func() {
		if p.metrics != nil {
			p.metrics.ObservePassDuration(p.clock().Sub(started).Seconds())
		}
	}()

	stored, ok, err := p.checkpoint.Get(ctx)
	if err != nil {
		res.Outcome = OutcomeCheckpointError
		p.observe(res)
		p.logger.ErrorContext(ctx, logPrefix+" failed to read checkpoint", "epoch", uint64(current), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkpoint read")
		if !dErrors.HasCode(err, dErrors.CodeCheckpointRead) {
			err = dErrors.Wrap(err, dErrors.CodeCheckpointRead, "read checkpoint")
		}
		return res, err
	}
	if ok {
		cp := stored
		res.Checkpoint = &cp
		if stored >= current {
			res.Outcome = OutcomeAlreadyProcessed
			p.observe(res)
			p.logger.InfoContext(ctx, logPrefix+" epoch already processed",
				"epoch", uint64(current),
				"checkpoint", uint64(stored),
			)
			return res, nil
		}
	}

	res.Start = stored + 1
	res.End = current
	if res.Start >= res.End {
		res.Outcome = OutcomeNoEpochs
		p.observe(res)
		return res, nil
	}
	if n := uint64(res.End - res.Start); n > p.backtrack {
		res.Skipped = n - p.backtrack
		res.Start = res.End - id.EpochNumber(p.backtrack)
		p.logger.WarnContext(ctx, logPrefix+" skipping epochs beyond backtrack period",
			"skipped", res.Skipped,
			"start_block", uint64(res.Start),
		)
	}
	p.logger.InfoContext(ctx, logPrefix+" processing epochs",
		"start_block", uint64(res.Start),
		"end_block", uint64(res.End),
	)

	var loopErr error
	var lastCompleted id.EpochNumber
	for e := res.Start; e < res.End; e++ {
		if err := ctx.Err(); err != nil {
			p.logger.WarnContext(ctx, logPrefix+" pass cancelled", "epoch", uint64(e), "error", err)
			loopErr = err
			break
		}
		applied, err := p.processOne(ctx, e)
		res.Applied += applied
		if err != nil {
			loopErr = err
			break
		}
		lastCompleted = e
	}

	if lastCompleted >= res.Start {
		res.LastCompleted = lastCompleted
		if err := p.checkpoint.Commit(context.WithoutCancel(ctx), lastCompleted); err != nil {
			res.Outcome = OutcomePartial
			p.observe(res)
			p.logger.ErrorContext(ctx, logPrefix+" failed to commit checkpoint",
				"last_completed", uint64(lastCompleted),
				"error", err,
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "checkpoint commit")
			return res, fmt.Errorf("commit checkpoint %d: %w", lastCompleted, err)
		}
		res.Committed = true
		if p.metrics != nil {
			p.metrics.SetCheckpoint(uint64(lastCompleted))
		}
	}

	if loopErr != nil {
		res.Outcome = OutcomePartial
		p.observe(res)
		span.RecordError(loopErr)
		span.SetStatus(codes.Error, "epoch loop stopped")
		return res, loopErr
	}

	res.Outcome = OutcomeProcessed
	p.observe(res)
	p.logger.InfoContext(ctx, logPrefix+" processed epochs",
		"start_block", uint64(res.Start),
		"end_block", uint64(res.End),
		"applied", res.Applied,
	)
	return res, nil
}

// processOne drains the queue once and applies the batch for epoch e.
func (p *Processor) processOne(ctx context.Context, e id.EpochNumber) (int, error) {
	ctx, span := p.tracer.Start(ctx, "ocw.epoch",
		trace.WithAttributes(attribute.Int64("ocw.epoch", int64(e))))
	defer span.End()

	batch, err := p.queue.DrainAll(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, logPrefix+" failed to drain queue", "epoch", uint64(e), "error", err)
		return 0, fmt.Errorf("drain queue at epoch %d: %w", e, err)
	}
	if p.metrics != nil {
		p.metrics.ObserveBatchSize(len(batch.Requests))
	}

	applied := 0
	for _, req := range batch.Requests {
		if err := p.applier.Apply(ctx, req); err != nil {
			if p.metrics != nil {
				p.metrics.IncApplyFailure(string(req.Kind))
			}
			p.logger.ErrorContext(ctx, logPrefix+" failed to apply request",
				"epoch", uint64(e),
				"request", req.String(),
				"error", err,
			)
			return applied, fmt.Errorf("apply %s at epoch %d: %w", req, e, err)
		}
		applied++
		if p.metrics != nil {
			p.metrics.IncApplied(string(req.Kind))
		}
	}

	if err := p.queue.Ack(ctx, batch); err != nil {
		if errors.Is(err, queue.ErrBatchSuperseded) {
			// another pass re-drained this batch after our lease expired; it
			// replays the same idempotent requests
			p.logger.WarnContext(ctx, logPrefix+" batch superseded", "epoch", uint64(e))
			return applied, nil
		}
		p.logger.ErrorContext(ctx, logPrefix+" failed to ack batch", "epoch", uint64(e), "error", err)
		return applied, fmt.Errorf("ack batch at epoch %d: %w", e, err)
	}
	return applied, nil
}

func (p *Processor) observe(res Result) {
	if p.metrics != nil {
		p.metrics.IncPass(string(res.Outcome))
	}
}
