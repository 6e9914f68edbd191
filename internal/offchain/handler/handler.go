// Package handler exposes operator routes for the offchain processor.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contactledger/internal/offchain/processor"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
	"contactledger/pkg/platform/httputil"
	"contactledger/pkg/platform/middleware/admin"
	"contactledger/pkg/requestcontext"
)

// Processor runs one pass for an externally supplied epoch.
type Processor interface {
	ProcessEpoch(ctx context.Context, current id.EpochNumber) (processor.Result, error)
}

type CheckpointReader interface {
	Get(ctx context.Context) (id.EpochNumber, bool, error)
}

type QueueInspector interface {
	Len(ctx context.Context) (pending, inflight int, err error)
}

// EpochSource reports the current epoch when a scheduler is running.
type EpochSource interface {
	Current() id.EpochNumber
}

type Handler struct {
	logger     *slog.Logger
	processor  Processor
	checkpoint CheckpointReader
	queue      QueueInspector
	epochs     EpochSource
	adminToken string
}

func New(p Processor, checkpoint CheckpointReader, queue QueueInspector, epochs EpochSource, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		processor:  p,
		checkpoint: checkpoint,
		queue:      queue,
		epochs:     epochs,
		adminToken: adminToken,
	}
}

// StatusResponse summarises processor progress.
type StatusResponse struct {
	Checkpoint   *id.EpochNumber `json:"checkpoint"`
	CurrentEpoch *id.EpochNumber `json:"current_epoch,omitempty"`
	Pending      int             `json:"pending"`
	Inflight     int             `json:"inflight"`
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/offchain/status", h.handleStatus)
	r.Group(func(ops chi.Router) {
		ops.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		ops.Post("/offchain/epochs/{epoch}", h.handleProcessEpoch)
	})
}

func (h *Handler) handleProcessEpoch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	raw := chi.URLParam(r, "epoch")
	epoch, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "epoch must be a non-negative integer"))
		return
	}

	if h.epochs != nil {
		if current := h.epochs.Current(); id.EpochNumber(epoch) > current {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput,
				fmt.Sprintf("epoch %d is ahead of the current epoch %d", epoch, current)))
			return
		}
	}

	res, err := h.processor.ProcessEpoch(ctx, id.EpochNumber(epoch))
	if err != nil {
		h.logger.ErrorContext(ctx, "manual offchain pass failed",
			"request_id", requestID,
			"epoch", epoch,
			"outcome", string(res.Outcome),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "manual offchain pass",
		"request_id", requestID,
		"epoch", epoch,
		"outcome", string(res.Outcome),
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp StatusResponse

	cp, ok, err := h.checkpoint.Get(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "status: checkpoint unreadable",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if ok {
		resp.Checkpoint = &cp
	}

	resp.Pending, resp.Inflight, err = h.queue.Len(ctx)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to inspect queue"))
		return
	}
	if h.epochs != nil {
		current := h.epochs.Current()
		resp.CurrentEpoch = &current
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
