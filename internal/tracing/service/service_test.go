package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Exchange,ContactStore,FlagStore,RequestQueue,EventPublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"contactledger/internal/contacts"
	"contactledger/internal/flags"
	"contactledger/internal/ledger"
	"contactledger/internal/offchain/models"
	"contactledger/internal/platform/logger"
	"contactledger/internal/tracing/metrics"
	"contactledger/internal/tracing/service/mocks"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
	"contactledger/pkg/platform/sentinel"
	"contactledger/pkg/requestcontext"
)

const signer = id.AccountID("acct-1")

type ServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	exchange *mocks.MockExchange
	contacts *mocks.MockContactStore
	flags    *mocks.MockFlagStore
	queue    *mocks.MockRequestQueue
	events   *mocks.MockEventPublisher
	service  *Service
	now      time.Time
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.exchange = mocks.NewMockExchange(s.ctrl)
	s.contacts = mocks.NewMockContactStore(s.ctrl)
	s.flags = mocks.NewMockFlagStore(s.ctrl)
	s.queue = mocks.NewMockRequestQueue(s.ctrl)
	s.events = mocks.NewMockEventPublisher(s.ctrl)
	s.service = s.newService()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	base := []Option{
		WithLogger(logger.Discard()),
		WithMetrics(metrics.NewWithRegistry(prometheus.NewRegistry())),
	}
	return New(s.exchange, s.contacts, s.flags, s.queue, s.events, append(base, opts...)...)
}

func external() (string, id.Identity) {
	ext := uuid.NewString()
	identity, err := id.DeriveIdentity(ext)
	if err != nil {
		panic(err)
	}
	return ext, identity
}

func (s *ServiceSuite) expectDerive(ext string, identity id.Identity) {
	s.exchange.EXPECT().DeriveInternal(id.ExternalID(ext)).Return(identity, nil)
}

func (s *ServiceSuite) TestGenerateID() {
	ext, identity := external()

	s.Run("enqueues the resolved external id", func() {
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(ext), true, nil)
		s.queue.EXPECT().Enqueue(gomock.Any(), models.AddToUUIDPool(id.ExternalID(ext))).Return(nil)

		s.Require().NoError(s.service.GenerateID(s.ctx, signer, identity))
	})

	s.Run("unresolvable identity fails without enqueueing", func() {
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(""), false, nil)

		err := s.service.GenerateID(s.ctx, signer, identity)
		s.True(dErrors.HasCode(err, dErrors.CodeIdentityResolutionFailed))
	})

	s.Run("unsigned command is rejected", func() {
		err := s.service.GenerateID(s.ctx, "", identity)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("exchange failure is internal", func() {
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(""), false, errors.New("registry down"))

		err := s.service.GenerateID(s.ctx, signer, identity)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestAddContact() {
	s.Run("records the contact and emits ContactAdded", func() {
		extA, a := external()
		extB, b := external()
		s.exchange.EXPECT().CheckExists(gomock.Any(), extA).Return(true, nil)
		s.exchange.EXPECT().CheckExists(gomock.Any(), extB).Return(true, nil)
		s.expectDerive(extA, a)
		s.expectDerive(extB, b)
		gomock.InOrder(
			s.flags.EXPECT().IsExposed(gomock.Any(), b).Return(false, nil),
			s.contacts.EXPECT().Insert(gomock.Any(), a, b, s.now).Return(&contacts.Contact{ID: a, ContactID: b, Timestamp: s.now}, nil),
			s.events.EXPECT().Emit(gomock.Any(), ledger.ContactAdded(a)).Return(nil),
		)

		s.Require().NoError(s.service.AddContact(s.ctx, signer, extA, extB))
	})

	s.Run("exposed contact queues the reporter for propagation", func() {
		extA, a := external()
		extB, b := external()
		s.exchange.EXPECT().CheckExists(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
		s.expectDerive(extA, a)
		s.expectDerive(extB, b)
		gomock.InOrder(
			s.flags.EXPECT().IsExposed(gomock.Any(), b).Return(true, nil),
			s.queue.EXPECT().Enqueue(gomock.Any(), models.FlagID(a)).Return(nil),
			s.contacts.EXPECT().Insert(gomock.Any(), a, b, s.now).Return(&contacts.Contact{}, nil),
			s.events.EXPECT().Emit(gomock.Any(), ledger.ContactAdded(a)).Return(nil),
		)

		s.Require().NoError(s.service.AddContact(s.ctx, signer, extA, extB))
	})

	s.Run("unknown second id fails before any mutation", func() {
		extA, _ := external()
		extB, _ := external()
		s.exchange.EXPECT().CheckExists(gomock.Any(), extA).Return(true, nil)
		s.exchange.EXPECT().CheckExists(gomock.Any(), extB).Return(false, nil)

		err := s.service.AddContact(s.ctx, signer, extA, extB)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidIdentity))
	})

	s.Run("known but malformed id is MalformedIdentity", func() {
		s.exchange.EXPECT().CheckExists(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)

		err := s.service.AddContact(s.ctx, signer, "uuid-1", "uuid-2")
		s.True(dErrors.HasCode(err, dErrors.CodeMalformedIdentity))
	})

	s.Run("event failure does not fail the command", func() {
		extA, a := external()
		extB, b := external()
		s.exchange.EXPECT().CheckExists(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
		s.expectDerive(extA, a)
		s.expectDerive(extB, b)
		s.flags.EXPECT().IsExposed(gomock.Any(), b).Return(false, nil)
		s.contacts.EXPECT().Insert(gomock.Any(), a, b, s.now).Return(&contacts.Contact{}, nil)
		s.events.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(ledger.ErrDropped)

		s.Require().NoError(s.service.AddContact(s.ctx, signer, extA, extB))
	})

	s.Run("enqueue failure fails the command before the insert", func() {
		extA, a := external()
		extB, b := external()
		s.exchange.EXPECT().CheckExists(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
		s.expectDerive(extA, a)
		s.expectDerive(extB, b)
		s.flags.EXPECT().IsExposed(gomock.Any(), b).Return(true, nil)
		s.queue.EXPECT().Enqueue(gomock.Any(), models.FlagID(a)).Return(errors.New("redis down"))
		// no Insert and no Emit expected

		err := s.service.AddContact(s.ctx, signer, extA, extB)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestCheckID() {
	ext, _ := external()

	s.exchange.EXPECT().CheckExists(gomock.Any(), ext).Return(true, nil)
	s.NoError(s.service.CheckID(s.ctx, ext))

	s.exchange.EXPECT().CheckExists(gomock.Any(), ext).Return(false, nil)
	s.True(dErrors.HasCode(s.service.CheckID(s.ctx, ext), dErrors.CodeInvalidIdentity))
}

func (s *ServiceSuite) TestAddFlag() {
	s.Run("overwrites the flag and emits ContactFlagged", func() {
		ext, identity := external()
		s.expectDerive(ext, identity)
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(ext), true, nil)
		gomock.InOrder(
			s.flags.EXPECT().Set(gomock.Any(), identity, id.FlagPositive, s.now).Return(&flags.Flag{}, nil),
			s.events.EXPECT().Emit(gomock.Any(), ledger.ContactFlagged(id.ExternalID(ext), id.FlagPositive)).Return(nil),
		)

		s.Require().NoError(s.service.AddFlag(s.ctx, signer, ext, id.FlagPositive))
	})

	s.Run("malformed id fails before lookup", func() {
		err := s.service.AddFlag(s.ctx, signer, "uuid-1", id.FlagPositive)
		s.True(dErrors.HasCode(err, dErrors.CodeMalformedIdentity))
	})

	s.Run("unknown id is InvalidIdentity", func() {
		ext, identity := external()
		s.expectDerive(ext, identity)
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(""), false, nil)

		err := s.service.AddFlag(s.ctx, signer, ext, id.FlagNegative)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidIdentity))
	})

	s.Run("invalid flag type is rejected", func() {
		ext, _ := external()
		err := s.service.AddFlag(s.ctx, signer, ext, id.FlagType("contagious"))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("store failure is internal and emits nothing", func() {
		ext, identity := external()
		s.expectDerive(ext, identity)
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(ext), true, nil)
		s.flags.EXPECT().Set(gomock.Any(), identity, id.FlagSuspicious, s.now).Return(nil, errors.New("db down"))

		err := s.service.AddFlag(s.ctx, signer, ext, id.FlagSuspicious)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestAddFlagOwnership() {
	ext, identity := external()

	s.Run("any signer may flag when enforcement is off", func() {
		s.expectDerive(ext, identity)
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(ext), true, nil)
		s.flags.EXPECT().Set(gomock.Any(), identity, id.FlagPositive, s.now).Return(&flags.Flag{}, nil)
		s.events.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.Require().NoError(s.service.AddFlag(s.ctx, "someone-else", ext, id.FlagPositive))
	})

	s.Run("non-owner is rejected when enforcement is on", func() {
		svc := s.newService(WithFlagOwnershipEnforced(true))
		s.expectDerive(ext, identity)
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(ext), true, nil)
		s.exchange.EXPECT().OwnerOf(gomock.Any(), identity).Return(signer, true, nil)

		err := svc.AddFlag(s.ctx, "someone-else", ext, id.FlagPositive)
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	s.Run("owner may flag when enforcement is on", func() {
		svc := s.newService(WithFlagOwnershipEnforced(true))
		s.expectDerive(ext, identity)
		s.exchange.EXPECT().Resolve(gomock.Any(), identity).Return(id.ExternalID(ext), true, nil)
		s.exchange.EXPECT().OwnerOf(gomock.Any(), identity).Return(signer, true, nil)
		s.flags.EXPECT().Set(gomock.Any(), identity, id.FlagNegative, s.now).Return(&flags.Flag{}, nil)
		s.events.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.Require().NoError(svc.AddFlag(s.ctx, signer, ext, id.FlagNegative))
	})
}

func (s *ServiceSuite) TestGetFlag() {
	_, identity := external()

	s.flags.EXPECT().Get(gomock.Any(), identity).Return(nil, sentinel.ErrNotFound)
	_, err := s.service.GetFlag(s.ctx, identity)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	ft := id.FlagPositive
	s.flags.EXPECT().Get(gomock.Any(), identity).Return(&flags.Flag{ID: identity, FlagType: &ft}, nil)
	f, err := s.service.GetFlag(s.ctx, identity)
	s.Require().NoError(err)
	s.True(f.Exposed())
}
