package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/service/bulk"
	"github.com/tastemap/tastemap-backend/internal/transport/middleware"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type resourceService interface {
	Get(ctx context.Context, typeName string, id int64) (map[string]any, error)
	List(ctx context.Context, typeName string) ([]map[string]any, error)
	Create(ctx context.Context, typeName string, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, typeName string, id int64, payload map[string]any) (map[string]any, error)
	Delete(ctx context.Context, typeName string, id int64) error
}

type bulkService interface {
	Process(ctx context.Context, input bulk.ProcessInput) (*domain.BulkResult, error)
}

type cleanupService interface {
	Analyze(ctx context.Context, typeName string) ([]domain.ChangeProposal, error)
	Apply(ctx context.Context, typeName string, changeIDs []string) ([]domain.ChangeResult, error)
	Reject(ctx context.Context, typeName string, changeIDs []string) ([]domain.ChangeResult, error)
}

// AdminHandler serves the administration REST endpoints: generic resource
// CRUD, bulk add, and the data-quality workflow.
type AdminHandler struct {
	resources resourceService
	bulk      bulkService
	cleanup   cleanupService
	log       *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(resources resourceService, bulkSvc bulkService, cleanup cleanupService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		resources: resources,
		bulk:      bulkSvc,
		cleanup:   cleanup,
		log:       logger.With("handler", "admin"),
	}
}

// Register mounts every admin route on the mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/resources/{type}", h.List)
	mux.HandleFunc("POST /api/admin/resources/{type}", h.Create)
	mux.HandleFunc("GET /api/admin/resources/{type}/{id}", h.Get)
	mux.HandleFunc("PUT /api/admin/resources/{type}/{id}", h.Update)
	mux.HandleFunc("DELETE /api/admin/resources/{type}/{id}", h.Delete)

	mux.HandleFunc("POST /api/admin/bulk", h.BulkAdd)

	mux.HandleFunc("GET /api/admin/cleanup/{type}", h.CleanupAnalyze)
	mux.HandleFunc("POST /api/admin/cleanup/{type}/apply", h.CleanupApply)
	mux.HandleFunc("POST /api/admin/cleanup/{type}/reject", h.CleanupReject)
}

// ---------------------------------------------------------------------------
// Resource CRUD
// ---------------------------------------------------------------------------

// List handles GET /api/admin/resources/{type}.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	rows, err := h.resources.List(r.Context(), r.PathValue("type"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// Get handles GET /api/admin/resources/{type}/{id}.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	row, err := h.resources.Get(r.Context(), r.PathValue("type"), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// Create handles POST /api/admin/resources/{type}.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.resources.Create(r.Context(), r.PathValue("type"), payload)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, row)
}

// Update handles PUT /api/admin/resources/{type}/{id}.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.resources.Update(r.Context(), r.PathValue("type"), id, payload)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// Delete handles DELETE /api/admin/resources/{type}/{id}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.resources.Delete(r.Context(), r.PathValue("type"), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Bulk add
// ---------------------------------------------------------------------------

type bulkRequest struct {
	Items []domain.BulkItem `json:"items"`
}

// BulkAdd handles POST /api/admin/bulk. Partial failures are a successful
// call: the per-item breakdown comes back with HTTP 200. Error statuses
// are reserved for request-level failures (malformed body, oversized
// batch, whole-transaction rollback).
func (h *AdminHandler) BulkAdd(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.bulk.Process(r.Context(), bulk.ProcessInput{Items: req.Items})
	if err != nil {
		if result != nil {
			// The whole batch rolled back: surface the breakdown with an
			// error status.
			h.log.ErrorContext(r.Context(), "bulk batch failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, result)
			return
		}
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ---------------------------------------------------------------------------
// Data-quality workflow
// ---------------------------------------------------------------------------

type changeIDsRequest struct {
	ChangeIDs []string `json:"changeIds"`
}

// CleanupAnalyze handles GET /api/admin/cleanup/{type}.
func (h *AdminHandler) CleanupAnalyze(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	proposals, err := h.cleanup.Analyze(r.Context(), r.PathValue("type"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"changes": proposals})
}

// CleanupApply handles POST /api/admin/cleanup/{type}/apply.
func (h *AdminHandler) CleanupApply(w http.ResponseWriter, r *http.Request) {
	h.applyOrReject(w, r, h.cleanup.Apply)
}

// CleanupReject handles POST /api/admin/cleanup/{type}/reject.
func (h *AdminHandler) CleanupReject(w http.ResponseWriter, r *http.Request) {
	h.applyOrReject(w, r, h.cleanup.Reject)
}

func (h *AdminHandler) applyOrReject(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, typeName string, changeIDs []string) ([]domain.ChangeResult, error),
) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req changeIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := op(r.Context(), r.PathValue("type"), req.ChangeIDs)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
