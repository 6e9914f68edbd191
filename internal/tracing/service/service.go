// Package service implements the externally triggered state transitions of
// the contact ledger. Each command validates completely before its first
// mutation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"contactledger/internal/contacts"
	"contactledger/internal/exposure"
	"contactledger/internal/flags"
	"contactledger/internal/ledger"
	"contactledger/internal/offchain/models"
	"contactledger/internal/tracing/metrics"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
	"contactledger/pkg/platform/sentinel"
	"contactledger/pkg/requestcontext"
)

// Exchange is the identity provider port.
type Exchange interface {
	CheckExists(ctx context.Context, external string) (bool, error)
	Resolve(ctx context.Context, internal id.Identity) (id.ExternalID, bool, error)
	DeriveInternal(external id.ExternalID) (id.Identity, error)
	OwnerOf(ctx context.Context, internal id.Identity) (id.AccountID, bool, error)
}

type ContactStore interface {
	Insert(ctx context.Context, a, b id.Identity, when time.Time) (*contacts.Contact, error)
	ListByID(ctx context.Context, a id.Identity) ([]*contacts.Contact, error)
}

type FlagStore interface {
	Set(ctx context.Context, identity id.Identity, flagType id.FlagType, when time.Time) (*flags.Flag, error)
	Get(ctx context.Context, identity id.Identity) (*flags.Flag, error)
	IsExposed(ctx context.Context, identity id.Identity) (bool, error)
}

// RequestQueue is the enqueue side of the pending request queue.
type RequestQueue interface {
	Enqueue(ctx context.Context, req models.Request) error
}

type EventPublisher interface {
	Emit(ctx context.Context, event ledger.Event) error
}

// NoticeReader exposes recorded exposure notices.
type NoticeReader interface {
	ListBySubject(ctx context.Context, subject id.Identity) ([]*exposure.Notice, error)
}

// Service coordinates the stores behind the four commands.
type Service struct {
	exchange Exchange
	contacts ContactStore
	flags    FlagStore
	queue    RequestQueue
	events   EventPublisher
	notices  NoticeReader
	tx       TxRunner
	logger   *slog.Logger
	metrics  *metrics.Metrics

	enforceFlagOwnership bool
}

// Option configures a Service.
type Option func(*Service)

func WithTx(tx TxRunner) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNoticeReader(r NoticeReader) Option {
	return func(s *Service) {
		s.notices = r
	}
}

// WithFlagOwnershipEnforced makes AddFlag reject signers that do not own
// the identity. Off by default: any signed caller may flag any known
// identity.
func WithFlagOwnershipEnforced(enforce bool) Option {
	return func(s *Service) {
		s.enforceFlagOwnership = enforce
	}
}

func New(exchange Exchange, contactStore ContactStore, flagStore FlagStore, queue RequestQueue, events EventPublisher, opts ...Option) *Service {
	s := &Service{
		exchange: exchange,
		contacts: contactStore,
		flags:    flagStore,
		queue:    queue,
		events:   events,
		tx:       NewShardedTx(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GenerateID registers the external form of requested in the uuid pool on
// the next processor pass.
//
// Errors: CodeUnauthorized, CodeIdentityResolutionFailed.
func (s *Service) GenerateID(ctx context.Context, signer id.AccountID, requested id.Identity) (err error) {
	defer s.record(ctx, "generate_id", &err)

	if err := requireSigner(signer); err != nil {
		return err
	}
	external, ok, err := s.exchange.Resolve(ctx, requested)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve identity")
	}
	if !ok {
		return dErrors.New(dErrors.CodeIdentityResolutionFailed, "identity could not be resolved")
	}
	return s.enqueue(ctx, models.AddToUUIDPool(external))
}

// AddContact records that externalA met externalB. When B is currently
// exposed, A is queued for exposure propagation.
//
// Errors: CodeUnauthorized, CodeInvalidIdentity, CodeMalformedIdentity.
func (s *Service) AddContact(ctx context.Context, signer id.AccountID, externalA, externalB string) (err error) {
	defer s.record(ctx, "add_contact", &err)

	if err := requireSigner(signer); err != nil {
		return err
	}
	for _, ext := range []string{externalA, externalB} {
		if err := s.checkExists(ctx, ext); err != nil {
			return err
		}
	}
	a, err := s.derive(externalA)
	if err != nil {
		return err
	}
	b, err := s.derive(externalB)
	if err != nil {
		return err
	}

	now := requestcontext.Now(ctx).UTC()
	err = s.tx.RunInTx(WithTxKey(ctx, a.String()), func(ctx context.Context) error {
		exposed, err := s.flags.IsExposed(ctx, b)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read contact exposure")
		}
		// The queue may live outside the tx, so it goes first: a failed
		// enqueue leaves no contact behind, and a FlagID left by a failed
		// insert is absorbed by idempotent propagation.
		if exposed {
			if err := s.enqueue(ctx, models.FlagID(a)); err != nil {
				return err
			}
		}
		if _, err := s.contacts.Insert(ctx, a, b, now); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert contact")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, ledger.ContactAdded(a))
	return nil
}

// CheckID validates that external is known.
//
// Errors: CodeInvalidIdentity.
func (s *Service) CheckID(ctx context.Context, external string) (err error) {
	defer s.record(ctx, "check_id", &err)
	return s.checkExists(ctx, external)
}

// AddFlag overwrites the flag of external.
//
// Errors: CodeUnauthorized, CodeMalformedIdentity, CodeInvalidIdentity,
// CodeNotOwner (only with ownership enforcement).
func (s *Service) AddFlag(ctx context.Context, signer id.AccountID, external string, flagType id.FlagType) (err error) {
	defer s.record(ctx, "add_flag", &err)

	if err := requireSigner(signer); err != nil {
		return err
	}
	if !flagType.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid flag_type")
	}
	flagged, err := s.derive(external)
	if err != nil {
		return err
	}
	resolved, ok, err := s.exchange.Resolve(ctx, flagged)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve identity")
	}
	if !ok {
		return dErrors.New(dErrors.CodeInvalidIdentity, "identity is not known")
	}
	if s.enforceFlagOwnership {
		owner, found, err := s.exchange.OwnerOf(ctx, flagged)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up identity owner")
		}
		if !found || owner != signer {
			return dErrors.New(dErrors.CodeNotOwner, "signer does not own this identity")
		}
	}

	now := requestcontext.Now(ctx).UTC()
	err = s.tx.RunInTx(WithTxKey(ctx, flagged.String()), func(ctx context.Context) error {
		if _, err := s.flags.Set(ctx, flagged, flagType, now); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set flag")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, ledger.ContactFlagged(resolved, flagType))
	return nil
}

// ListContacts returns the contacts reported by identity.
func (s *Service) ListContacts(ctx context.Context, identity id.Identity) ([]*contacts.Contact, error) {
	list, err := s.contacts.ListByID(ctx, identity)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contacts")
	}
	return list, nil
}

// GetFlag returns the live flag of identity.
//
// Errors: CodeNotFound.
func (s *Service) GetFlag(ctx context.Context, identity id.Identity) (*flags.Flag, error) {
	f, err := s.flags.Get(ctx, identity)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no flag for identity")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get flag")
	}
	return f, nil
}

// ListNotices returns exposure notices addressed to identity.
func (s *Service) ListNotices(ctx context.Context, identity id.Identity) ([]*exposure.Notice, error) {
	if s.notices == nil {
		return nil, nil
	}
	list, err := s.notices.ListBySubject(ctx, identity)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notices")
	}
	return list, nil
}

func (s *Service) checkExists(ctx context.Context, external string) error {
	ok, err := s.exchange.CheckExists(ctx, external)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check identity")
	}
	if !ok {
		return dErrors.New(dErrors.CodeInvalidIdentity, "identity is not known")
	}
	return nil
}

func (s *Service) derive(external string) (id.Identity, error) {
	ext, err := id.ParseExternalID(external)
	if err != nil {
		return id.Identity{}, err
	}
	return s.exchange.DeriveInternal(ext)
}

func (s *Service) enqueue(ctx context.Context, req models.Request) error {
	if err := s.queue.Enqueue(ctx, req); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to enqueue offchain request")
	}
	if s.metrics != nil {
		s.metrics.IncEnqueued(string(req.Kind))
	}
	return nil
}

// emit never fails the command; lost events are logged and counted.
func (s *Service) emit(ctx context.Context, event ledger.Event) {
	if err := s.events.Emit(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.IncEventEmitFailures()
		}
		s.logger.WarnContext(ctx, "failed to emit ledger event",
			"type", string(event.Type),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) record(ctx context.Context, command string, err *error) {
	result := "ok"
	if *err != nil {
		result = string(dErrors.CodeOf(*err))
		s.logger.InfoContext(ctx, "command rejected",
			"command", command,
			"request_id", requestcontext.RequestID(ctx),
			"error", *err,
		)
	}
	if s.metrics != nil {
		s.metrics.IncCommand(command, result)
	}
}

func requireSigner(signer id.AccountID) error {
	if signer == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "command must be signed")
	}
	return nil
}
