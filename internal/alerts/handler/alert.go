package handler

import (
	"net/http"

	"nestbook/internal/alerts/service"
	apperrors "nestbook/pkg/errors"
	httputil "nestbook/pkg/http"
	"nestbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AlertHandler struct {
	service service.AlertService
	log     *logger.Logger
}

func NewAlertHandler(svc service.AlertService, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		service: svc,
		log:     log,
	}
}

func (h *AlertHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *AlertHandler) Inbox(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	receiver := r.URL.Query().Get("receiver")
	if receiver == "" {
		h.writeError(w, "Inbox", apperrors.InvalidInput("The 'receiver' query parameter is required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Inbox", err)
		return
	}

	alerts, total, err := h.service.Inbox(r.Context(), receiver, limit, offset)
	if err != nil {
		h.writeError(w, "Inbox", err)
		return
	}

	if err := httputil.WritePaginated(w, alerts, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Inbox", "error", err)
	}
}

func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkRead(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}

	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write no-content response", "handler", "MarkRead", "error", err)
	}
}

func (h *AlertHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/alerts", h.Inbox)
	router.POST("/api/v1/alerts/id/:id/read", h.MarkRead)
}
