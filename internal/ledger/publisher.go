package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"contactledger/pkg/platform/circuit"
	"contactledger/pkg/requestcontext"
)

// Sink delivers events to listeners.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// ErrDropped is returned by Emit when the event was discarded without a
// delivery attempt.
var ErrDropped = errors.New("ledger: event dropped")

// Publisher fronts a Sink with a circuit breaker and an optional async
// buffer. While the breaker is open events are dropped.
type Publisher struct {
	sink    Sink
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *Metrics
	clock   func() time.Time

	buffer  chan Event
	wg      sync.WaitGroup
	closeMu sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer delivers events from a background goroutine. Emit never
// blocks; a full buffer drops the event.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan Event, size)
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		if b != nil {
			p.breaker = b
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithClock(clock func() time.Time) Option {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

func NewPublisher(sink Sink, opts ...Option) *Publisher {
	p := &Publisher{
		sink:    sink,
		breaker: circuit.New("ledger-sink"),
		logger:  slog.Default(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit stamps and delivers an event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx).UTC()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if p.buffer != nil {
		select {
		case p.buffer <- event:
			return nil
		default:
			if p.metrics != nil {
				p.metrics.IncBufferDropped()
			}
			return ErrDropped
		}
	}
	return p.deliver(ctx, event)
}

// Close stops the async worker after draining buffered events.
func (p *Publisher) Close() {
	p.closeMu.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.buffer {
		if err := p.deliver(context.Background(), event); err != nil && !errors.Is(err, ErrDropped) {
			p.logger.Warn("ledger event delivery failed",
				"type", string(event.Type),
				"request_id", event.RequestID,
				"error", err,
			)
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, event Event) error {
	if !p.breaker.Allow() {
		if p.metrics != nil {
			p.metrics.IncCircuitBreakerDropped()
		}
		return ErrDropped
	}
	if err := p.sink.Publish(ctx, event); err != nil {
		_, change := p.breaker.RecordFailure()
		if p.metrics != nil {
			p.metrics.IncDeliveryFailures()
		}
		if change.Opened {
			p.logger.WarnContext(ctx, "ledger sink circuit opened", "breaker", p.breaker.Name())
			if p.metrics != nil {
				p.metrics.SetCircuitBreakerState(true)
			}
		}
		return err
	}
	_, change := p.breaker.RecordSuccess()
	if change.Closed {
		p.logger.InfoContext(ctx, "ledger sink circuit closed", "breaker", p.breaker.Name())
		if p.metrics != nil {
			p.metrics.SetCircuitBreakerState(false)
		}
	}
	if p.metrics != nil {
		p.metrics.IncPublished(event.Type)
	}
	return nil
}
