// Package handler exposes the contact tracing commands over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"contactledger/internal/contacts"
	"contactledger/internal/exposure"
	"contactledger/internal/flags"
	"contactledger/internal/identity"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
	"contactledger/pkg/platform/httputil"
	"contactledger/pkg/platform/middleware/admin"
	"contactledger/pkg/platform/middleware/auth"
	"contactledger/pkg/requestcontext"
)

// Service defines the command and query surface of the ledger.
type Service interface {
	GenerateID(ctx context.Context, signer id.AccountID, requested id.Identity) error
	AddContact(ctx context.Context, signer id.AccountID, externalA, externalB string) error
	CheckID(ctx context.Context, external string) error
	AddFlag(ctx context.Context, signer id.AccountID, external string, flagType id.FlagType) error
	ListContacts(ctx context.Context, identity id.Identity) ([]*contacts.Contact, error)
	GetFlag(ctx context.Context, identity id.Identity) (*flags.Flag, error)
	ListNotices(ctx context.Context, identity id.Identity) ([]*exposure.Notice, error)
}

// Registrar provisions identities on the reference provider.
type Registrar interface {
	Register(ctx context.Context, external string, owner id.AccountID) (*identity.Record, error)
}

// Handler handles the contact tracing endpoints.
type Handler struct {
	logger     *slog.Logger
	service    Service
	registrar  Registrar
	validator  auth.SignerValidator
	adminToken string
	throttle   func(http.Handler) http.Handler
}

func New(service Service, registrar Registrar, validator auth.SignerValidator, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		registrar:  registrar,
		validator:  validator,
		adminToken: adminToken,
	}
}

// WithCommandThrottle installs middleware that runs on signed commands after
// the signer is authenticated.
func (h *Handler) WithCommandThrottle(mw func(http.Handler) http.Handler) *Handler {
	h.throttle = mw
	return h
}

// Register registers the contact tracing routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/identities/{external}/check", h.handleCheckID)
	r.Get("/contacts/{identity}", h.handleListContacts)
	r.Get("/flags/{identity}", h.handleGetFlag)
	r.Get("/notices/{identity}", h.handleListNotices)

	r.Group(func(signed chi.Router) {
		signed.Use(auth.RequireSigner(h.validator, h.logger))
		if h.throttle != nil {
			signed.Use(h.throttle)
		}
		signed.Post("/identities/generate", h.handleGenerateID)
		signed.Post("/contacts", h.handleAddContact)
		signed.Post("/flags", h.handleAddFlag)
	})

	if h.registrar != nil {
		r.Group(func(ops chi.Router) {
			ops.Use(admin.RequireAdminToken(h.adminToken, h.logger))
			ops.Post("/admin/identities", h.handleRegisterIdentity)
		})
	}
}

func (h *Handler) handleGenerateID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GenerateIDRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.GenerateID(ctx, requestcontext.Signer(ctx), req.identity); err != nil {
		h.writeServiceError(ctx, w, "generate id", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleAddContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddContactRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.AddContact(ctx, requestcontext.Signer(ctx), req.ID, req.ContactID); err != nil {
		h.writeServiceError(ctx, w, "add contact", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCheckID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	external := chi.URLParam(r, "external")

	if err := h.service.CheckID(ctx, external); err != nil {
		h.writeServiceError(ctx, w, "check id", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CheckIDResponse{ExternalID: external, Exists: true})
}

func (h *Handler) handleAddFlag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddFlagRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.AddFlag(ctx, requestcontext.Signer(ctx), req.ID, req.flagType); err != nil {
		h.writeServiceError(ctx, w, "add flag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.identityParam(w, r)
	if !ok {
		return
	}
	list, err := h.service.ListContacts(ctx, identity)
	if err != nil {
		h.writeServiceError(ctx, w, "list contacts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toContactsResponse(identity, list))
}

func (h *Handler) handleGetFlag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.identityParam(w, r)
	if !ok {
		return
	}
	f, err := h.service.GetFlag(ctx, identity)
	if err != nil {
		h.writeServiceError(ctx, w, "get flag", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toFlagResponse(f))
}

func (h *Handler) handleListNotices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.identityParam(w, r)
	if !ok {
		return
	}
	list, err := h.service.ListNotices(ctx, identity)
	if err != nil {
		h.writeServiceError(ctx, w, "list notices", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNoticesResponse(identity, list))
}

func (h *Handler) handleRegisterIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterIdentityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	rec, err := h.registrar.Register(ctx, req.ExternalID, id.AccountID(req.Owner))
	if err != nil {
		h.writeServiceError(ctx, w, "register identity", err)
		return
	}
	h.logger.InfoContext(ctx, "identity registered",
		"request_id", requestID,
		"identity", rec.Identity.String(),
		"owner", string(rec.Owner),
	)
	httputil.WriteJSON(w, http.StatusCreated, toIdentityResponse(rec))
}

func (h *Handler) identityParam(w http.ResponseWriter, r *http.Request) (id.Identity, bool) {
	identity, err := id.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.Identity{}, false
	}
	return identity, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	requestID := requestcontext.RequestID(ctx)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"request_id", requestID,
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, op+" rejected",
			"request_id", requestID,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
