package exposure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contactledger/internal/contacts"
	id "contactledger/pkg/domain"
)

// ContactLister is the fan-out read the propagator needs.
type ContactLister interface {
	ListByID(ctx context.Context, a id.Identity) ([]*contacts.Contact, error)
}

// NoticeStore persists notices. Record must ignore (subject, via) pairs that
// already exist.
type NoticeStore interface {
	Record(ctx context.Context, via id.Identity, subjects []id.Identity, when time.Time) (int, error)
	ListBySubject(ctx context.Context, subject id.Identity) ([]*Notice, error)
}

// Propagator turns a flagged identity into exposure notices for the identity
// itself and everyone it reported contact with.
type Propagator struct {
	contacts ContactLister
	notices  NoticeStore
	logger   *slog.Logger
	clock    func() time.Time
}

// Option configures a Propagator.
type Option func(*Propagator)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Propagator) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(p *Propagator) {
		if clock != nil {
			p.clock = clock
		}
	}
}

func NewPropagator(contactLister ContactLister, notices NoticeStore, opts ...Option) *Propagator {
	p := &Propagator{
		contacts: contactLister,
		notices:  notices,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Propagate is idempotent: running it twice for the same identity records
// the same notices once.
func (p *Propagator) Propagate(ctx context.Context, flagged id.Identity) error {
	fanOut, err := p.contacts.ListByID(ctx, flagged)
	if err != nil {
		return fmt.Errorf("list contacts of %s: %w", flagged, err)
	}
	subjects := make([]id.Identity, 0, len(fanOut)+1)
	subjects = append(subjects, flagged)
	for _, c := range fanOut {
		subjects = append(subjects, c.ContactID)
	}
	added, err := p.notices.Record(ctx, flagged, subjects, p.clock().UTC())
	if err != nil {
		return fmt.Errorf("record exposure notices: %w", err)
	}
	p.logger.DebugContext(ctx, "exposure propagated",
		"identity", flagged.String(),
		"subjects", len(subjects),
		"new_notices", added,
	)
	return nil
}

// Notices returns the notices addressed to subject.
func (p *Propagator) Notices(ctx context.Context, subject id.Identity) ([]*Notice, error) {
	return p.notices.ListBySubject(ctx, subject)
}
