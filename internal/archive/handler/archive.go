package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"nestbook/internal/archive/service"
	apperrors "nestbook/pkg/errors"
	httputil "nestbook/pkg/http"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ArchiveHandler struct {
	service service.ArchiveService
	log     *logger.Logger
}

func NewArchiveHandler(svc service.ArchiveService, log *logger.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		service: svc,
		log:     log,
	}
}

func (h *ArchiveHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *ArchiveHandler) writeSuccess(w http.ResponseWriter, handlerName string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handlerName, "error", err)
	}
}

// Archive snapshots a live property into the archive. The body names
// the archive reason: unavailable keeps the record indefinitely,
// deleted starts the retention clock.
func (h *ArchiveHandler) Archive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status model.ArchiveStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "Archive", apperrors.InvalidInput("Invalid request body"))
		return
	}

	record, err := h.service.Archive(r.Context(), ps.ByName("id"), body.Status)
	if err != nil {
		h.writeError(w, "Archive", err)
		return
	}

	if err := httputil.WriteCreated(w, record); err != nil {
		h.log.Error("failed to write created response", "handler", "Archive", "error", err)
	}
}

func (h *ArchiveHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	record, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", record)
}

func (h *ArchiveHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	records, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, records, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *ArchiveHandler) Restore(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	property, err := h.service.Restore(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Restore", err)
		return
	}
	h.writeSuccess(w, "Restore", property)
}

// SetRestoreWindow restarts the archive's restore window as of the
// given instant, defaulting to now. The service derives the actual
// deadline from the retention window.
func (h *ArchiveHandler) SetRestoreWindow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		AsOf time.Time `json:"as_of"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, "SetRestoreWindow", apperrors.InvalidInput("Invalid request body"))
			return
		}
	}
	if body.AsOf.IsZero() {
		body.AsOf = time.Now().UTC()
	}

	record, err := h.service.SetRestoreWindow(r.Context(), ps.ByName("id"), body.AsOf)
	if err != nil {
		h.writeError(w, "SetRestoreWindow", err)
		return
	}
	h.writeSuccess(w, "SetRestoreWindow", record)
}

func (h *ArchiveHandler) ExpireSweep(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		AsOf time.Time `json:"as_of"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "ExpireSweep", apperrors.InvalidInput("Invalid request body"))
		return
	}
	if body.AsOf.IsZero() {
		body.AsOf = time.Now().UTC()
	}

	expired, err := h.service.ExpireSweep(r.Context(), body.AsOf)
	if err != nil {
		h.writeError(w, "ExpireSweep", err)
		return
	}
	h.writeSuccess(w, "ExpireSweep", map[string]int{"expired": expired})
}

func (h *ArchiveHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/archives/property/:id", h.Archive)
	router.GET("/api/v1/archives", h.GetAll)
	router.GET("/api/v1/archives/id/:id", h.GetByID)
	router.POST("/api/v1/archives/id/:id/restore", h.Restore)
	router.PATCH("/api/v1/archives/id/:id/window", h.SetRestoreWindow)
	router.POST("/api/v1/archives/sweep/expire", h.ExpireSweep)
}
