package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Processor,CheckpointReader,QueueInspector

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"contactledger/internal/offchain/handler/mocks"
	"contactledger/internal/offchain/processor"
	"contactledger/internal/platform/logger"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
	"contactledger/pkg/testutil"
)

const adminToken = "ops-secret"

type fixedEpoch id.EpochNumber

func (f fixedEpoch) Current() id.EpochNumber { return id.EpochNumber(f) }

type OffchainHandlerSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	processor  *mocks.MockProcessor
	checkpoint *mocks.MockCheckpointReader
	queue      *mocks.MockQueueInspector
	router     chi.Router
}

func TestOffchainHandlerSuite(t *testing.T) {
	suite.Run(t, new(OffchainHandlerSuite))
}

func (s *OffchainHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.processor = mocks.NewMockProcessor(s.ctrl)
	s.checkpoint = mocks.NewMockCheckpointReader(s.ctrl)
	s.queue = mocks.NewMockQueueInspector(s.ctrl)
	s.router = chi.NewRouter()
	New(s.processor, s.checkpoint, s.queue, fixedEpoch(7), adminToken, logger.Discard()).Register(s.router)
}

func (s *OffchainHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OffchainHandlerSuite) trigger(path string) *http.Request {
	req := testutil.NewRequest(s.T(), http.MethodPost, path)
	req.Header.Set("X-Admin-Token", adminToken)
	return req
}

func (s *OffchainHandlerSuite) TestProcessEpoch() {
	t := s.T()

	s.Run("returns the pass result", func() {
		s.processor.EXPECT().ProcessEpoch(gomock.Any(), id.EpochNumber(6)).Return(processor.Result{
			Outcome:       processor.OutcomeProcessed,
			Current:       6,
			Start:         4,
			End:           6,
			LastCompleted: 5,
			Committed:     true,
			Applied:       3,
		}, nil)

		rr := testutil.DoRequest(s.router, s.trigger("/offchain/epochs/6"))
		testutil.AssertStatusOK(t, rr)
		res := testutil.UnmarshalResponse[processor.Result](t, rr)
		s.Equal(processor.OutcomeProcessed, res.Outcome)
		s.Equal(id.EpochNumber(5), res.LastCompleted)
	})

	s.Run("lock contention is a normal outcome", func() {
		s.processor.EXPECT().ProcessEpoch(gomock.Any(), id.EpochNumber(6)).
			Return(processor.Result{Outcome: processor.OutcomeLockFailed, Current: 6}, nil)

		rr := testutil.DoRequest(s.router, s.trigger("/offchain/epochs/6"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "outcome", string(processor.OutcomeLockFailed))
	})

	s.Run("checkpoint read error surfaces its code", func() {
		s.processor.EXPECT().ProcessEpoch(gomock.Any(), id.EpochNumber(6)).
			Return(processor.Result{Outcome: processor.OutcomeCheckpointError},
				dErrors.New(dErrors.CodeCheckpointRead, "stored checkpoint is not an epoch number"))

		rr := testutil.DoRequest(s.router, s.trigger("/offchain/epochs/6"))
		testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, string(dErrors.CodeCheckpointRead))
	})

	s.Run("epoch ahead of the scheduler clock is rejected", func() {
		rr := testutil.DoRequest(s.router, s.trigger("/offchain/epochs/8"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("any epoch is accepted without a scheduler", func() {
		router := chi.NewRouter()
		New(s.processor, s.checkpoint, s.queue, nil, adminToken, logger.Discard()).Register(router)
		s.processor.EXPECT().ProcessEpoch(gomock.Any(), id.EpochNumber(1<<40)).
			Return(processor.Result{Outcome: processor.OutcomeProcessed, Current: 1 << 40}, nil)

		rr := testutil.DoRequest(router, s.trigger("/offchain/epochs/1099511627776"))
		testutil.AssertStatusOK(t, rr)
	})

	s.Run("non-numeric epoch", func() {
		rr := testutil.DoRequest(s.router, s.trigger("/offchain/epochs/six"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("requires the admin token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodPost, "/offchain/epochs/6"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func (s *OffchainHandlerSuite) TestStatus() {
	t := s.T()

	s.Run("reports checkpoint and queue depth", func() {
		s.checkpoint.EXPECT().Get(gomock.Any()).Return(id.EpochNumber(5), true, nil)
		s.queue.EXPECT().Len(gomock.Any()).Return(2, 1, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/offchain/status"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[StatusResponse](t, rr)
		s.Require().NotNil(resp.Checkpoint)
		s.Equal(id.EpochNumber(5), *resp.Checkpoint)
		s.Require().NotNil(resp.CurrentEpoch)
		s.Equal(id.EpochNumber(7), *resp.CurrentEpoch)
		s.Equal(2, resp.Pending)
		s.Equal(1, resp.Inflight)
	})

	s.Run("absent checkpoint is null", func() {
		s.checkpoint.EXPECT().Get(gomock.Any()).Return(id.EpochNumber(0), false, nil)
		s.queue.EXPECT().Len(gomock.Any()).Return(0, 0, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/offchain/status"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[StatusResponse](t, rr)
		s.Nil(resp.Checkpoint)
	})

	s.Run("queue failure is internal", func() {
		s.checkpoint.EXPECT().Get(gomock.Any()).Return(id.EpochNumber(5), true, nil)
		s.queue.EXPECT().Len(gomock.Any()).Return(0, 0, errors.New("redis down"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/offchain/status"))
		testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
	})
}
