package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"healthledger/internal/ledger/models"
	dErrors "healthledger/pkg/domain-errors"
	"healthledger/pkg/platform/httputil"
	"healthledger/pkg/requestcontext"
)

// Service defines the ledger operations exposed over HTTP.
type Service interface {
	CreateRecord(ctx context.Context, patientID, dataHash string) (uint64, error)
	RevokeRecord(ctx context.Context, recordID uint64) error
	RequestAccess(ctx context.Context, recordID uint64) error
	ViewRecord(ctx context.Context, recordID uint64) (models.HealthRecord, error)
	ViewGrant(ctx context.Context, recordID uint64) (models.AccessGrant, error)
	ViewAllStatus(ctx context.Context) (models.Counters, error)
}

// Handler handles ledger endpoints.
type Handler struct {
	logger *slog.Logger
	ledger Service
}

// New creates a new ledger Handler.
func New(ledger Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		ledger: ledger,
	}
}

// Register registers the ledger routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/records", h.handleCreateRecord)
	r.Get("/records/{id}", h.handleViewRecord)
	r.Post("/records/{id}/revoke", h.handleRevokeRecord)
	r.Post("/records/{id}/access", h.handleRequestAccess)
	r.Get("/records/{id}/grant", h.handleViewGrant)
	r.Get("/status", h.handleViewAllStatus)
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[models.CreateRecordRequest](w, r, h.logger)
	if !ok {
		return
	}

	id, err := h.ledger.CreateRecord(ctx, req.PatientID, req.DataHash)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.CreateRecordResponse{RecordID: id})
}

func (h *Handler) handleRevokeRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.RevokeRecord(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ActionResponse{
		RecordID: id,
		Message:  fmt.Sprintf("Access revoked for record %d", id),
	})
}

func (h *Handler) handleRequestAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.RequestAccess(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ActionResponse{
		RecordID: id,
		Message:  fmt.Sprintf("Access granted for record %d", id),
	})
}

// handleViewRecord answers 200 with the sentinel record for unknown ids.
func (h *Handler) handleViewRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	record, err := h.ledger.ViewRecord(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleViewGrant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	grant, err := h.ledger.ViewGrant(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, grant)
}

func (h *Handler) handleViewAllStatus(w http.ResponseWriter, r *http.Request) {
	counters, err := h.ledger.ViewAllStatus(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToStatusResponse(counters))
}

// recordID parses the {id} path parameter, writing a 400 when it is not a uint64.
func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		ctx := r.Context()
		h.logger.WarnContext(ctx, "invalid record id",
			"request_id", requestcontext.RequestID(ctx),
			"id", raw,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "record id must be a non-negative integer"))
		return 0, false
	}
	return id, true
}
