package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactledger/internal/offchain/processor"
	"contactledger/internal/platform/logger"
	id "contactledger/pkg/domain"
)

type recordingTrigger struct {
	mu      sync.Mutex
	epochs  []id.EpochNumber
	outcome processor.Outcome
	err     error
}

func (r *recordingTrigger) ProcessEpoch(_ context.Context, current id.EpochNumber) (processor.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epochs = append(r.epochs, current)
	outcome := r.outcome
	if outcome == "" {
		outcome = processor.OutcomeProcessed
	}
	return processor.Result{Outcome: outcome, Current: current}, r.err
}

func (r *recordingTrigger) calls() []id.EpochNumber {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]id.EpochNumber(nil), r.epochs...)
}

var genesis = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = t
}

func TestClockEpochAt(t *testing.T) {
	c := Clock{Genesis: genesis, Interval: 6 * time.Second}

	assert.Equal(t, id.EpochNumber(0), c.EpochAt(genesis.Add(-time.Hour)))
	assert.Equal(t, id.EpochNumber(0), c.EpochAt(genesis.Add(5*time.Second)))
	assert.Equal(t, id.EpochNumber(1), c.EpochAt(genesis.Add(6*time.Second)))
	assert.Equal(t, id.EpochNumber(6), c.EpochAt(genesis.Add(36*time.Second+time.Millisecond)))
	assert.Equal(t, id.EpochNumber(0), Clock{Genesis: genesis}.EpochAt(genesis.Add(time.Hour)))
}

func TestTickFiresOncePerEpoch(t *testing.T) {
	trigger := &recordingTrigger{}
	now := &fakeNow{t: genesis.Add(6 * time.Second)}
	s := New(trigger, Clock{Genesis: genesis, Interval: 6 * time.Second}, WithNow(now.Now), WithLogger(logger.Discard()))
	ctx := context.Background()

	ran, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	now.Set(genesis.Add(11 * time.Second))
	ran, err = s.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, ran)

	now.Set(genesis.Add(36 * time.Second))
	ran, err = s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Equal(t, []id.EpochNumber{1, 6}, trigger.calls())
}

func TestTickSkipsGenesisEpoch(t *testing.T) {
	trigger := &recordingTrigger{}
	now := &fakeNow{t: genesis.Add(time.Second)}
	s := New(trigger, Clock{Genesis: genesis, Interval: 6 * time.Second}, WithNow(now.Now))

	ran, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Empty(t, trigger.calls())
}

func TestTickAttemptsEachEpochOnce(t *testing.T) {
	now := &fakeNow{t: genesis.Add(12 * time.Second)}
	clock := Clock{Genesis: genesis, Interval: 6 * time.Second}

	t.Run("lock failure", func(t *testing.T) {
		trigger := &recordingTrigger{outcome: processor.OutcomeLockFailed}
		s := New(trigger, clock, WithNow(now.Now), WithLogger(logger.Discard()))
		for range 3 {
			_, err := s.Tick(context.Background())
			require.NoError(t, err)
		}
		assert.Equal(t, []id.EpochNumber{2}, trigger.calls())
	})

	t.Run("error", func(t *testing.T) {
		trigger := &recordingTrigger{outcome: processor.OutcomeCheckpointError, err: errors.New("corrupt")}
		s := New(trigger, clock, WithNow(now.Now), WithLogger(logger.Discard()))
		ran, err := s.Tick(context.Background())
		require.Error(t, err)
		assert.True(t, ran)

		ran, err = s.Tick(context.Background())
		require.NoError(t, err)
		assert.False(t, ran)
		assert.Equal(t, []id.EpochNumber{2}, trigger.calls())
	})

	t.Run("next epoch runs again after a failure", func(t *testing.T) {
		next := &fakeNow{t: genesis.Add(12 * time.Second)}
		trigger := &recordingTrigger{outcome: processor.OutcomeLockFailed}
		s := New(trigger, clock, WithNow(next.Now), WithLogger(logger.Discard()))
		_, _ = s.Tick(context.Background())
		next.Set(genesis.Add(18 * time.Second))
		ran, err := s.Tick(context.Background())
		require.NoError(t, err)
		assert.True(t, ran)
		assert.Equal(t, []id.EpochNumber{2, 3}, trigger.calls())
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	trigger := &recordingTrigger{}
	now := &fakeNow{t: genesis.Add(6 * time.Second)}
	s := New(trigger, Clock{Genesis: genesis, Interval: 6 * time.Second},
		WithNow(now.Now),
		WithPollInterval(5*time.Millisecond),
		WithLogger(logger.Discard()),
	)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return len(trigger.calls()) == 1 }, time.Second, 5*time.Millisecond)
	now.Set(genesis.Add(12 * time.Second))
	require.Eventually(t, func() bool { return len(trigger.calls()) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
