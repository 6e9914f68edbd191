// Package scheduler turns wall-clock time into epoch numbers and triggers the
// offchain processor once per new epoch.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"contactledger/internal/offchain/processor"
	id "contactledger/pkg/domain"
	"contactledger/pkg/requestcontext"
)

// Trigger runs one processor pass.
type Trigger interface {
	ProcessEpoch(ctx context.Context, current id.EpochNumber) (processor.Result, error)
}

// Clock derives epoch numbers: epoch n starts at genesis + n*interval.
type Clock struct {
	Genesis  time.Time
	Interval time.Duration
}

// EpochAt returns the epoch containing t. Times before genesis are epoch 0.
func (c Clock) EpochAt(t time.Time) id.EpochNumber {
	if c.Interval <= 0 || t.Before(c.Genesis) {
		return 0
	}
	return id.EpochNumber(t.Sub(c.Genesis) / c.Interval)
}

// Scheduler fires at most one pass for every epoch it observes. A pass that
// fails or loses the lease is not retried within the same epoch.
type Scheduler struct {
	trigger Trigger
	epochs  Clock
	poll    time.Duration
	now     func() time.Time
	logger  *slog.Logger

	mu   sync.Mutex
	last id.EpochNumber
}

type Option func(*Scheduler)

// WithPollInterval sets how often the clock is sampled. Defaults to half the
// epoch interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.poll = d
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(trigger Trigger, epochs Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		trigger: trigger,
		epochs:  epochs,
		poll:    max(epochs.Interval/2, 100*time.Millisecond),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Current returns the epoch of the scheduler clock's present instant.
func (s *Scheduler) Current() id.EpochNumber {
	return s.epochs.EpochAt(s.now())
}

// Tick triggers a pass if the current epoch has not been handled yet. It
// reports whether a pass was run.
func (s *Scheduler) Tick(ctx context.Context) (bool, error) {
	now := s.now()
	current := s.epochs.EpochAt(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if current == 0 || current <= s.last {
		return false, nil
	}

	// One attempt per epoch whatever the outcome. Work a failed or
	// contended pass leaves behind stays queued and is picked up by the
	// next epoch's pass.
	s.last = current
	res, err := s.trigger.ProcessEpoch(requestcontext.WithTime(ctx, now), current)
	if err != nil {
		return true, err
	}
	if res.Outcome == processor.OutcomeLockFailed {
		s.logger.DebugContext(ctx, "scheduled pass skipped, lock held elsewhere", "epoch", uint64(current))
	}
	return true, nil
}

// Run polls until ctx is cancelled. Pass errors are logged and never stop
// the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "epoch scheduler started",
		"genesis", s.epochs.Genesis,
		"interval", s.epochs.Interval.String(),
	)
	for {
		select {
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.logger.WarnContext(ctx, "scheduled pass failed",
					"epoch", uint64(s.Current()),
					"error", err,
				)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
