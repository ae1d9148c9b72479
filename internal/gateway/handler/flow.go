package handler

import (
	"encoding/json"
	"net/http"

	"nestbook/internal/gateway/service"
	apperrors "nestbook/pkg/errors"
	httputil "nestbook/pkg/http"
	"nestbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type FlowHandler struct {
	service *service.GatewayService
	log     *logger.Logger
}

func NewFlowHandler(svc *service.GatewayService, log *logger.Logger) *FlowHandler {
	return &FlowHandler{
		service: svc,
		log:     log,
	}
}

type executeFlowRequest struct {
	Flow  string         `json:"flow"`
	Input map[string]any `json:"input"`
}

func (h *FlowHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *FlowHandler) Execute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req executeFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Execute", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if req.Flow == "" {
		h.writeError(w, "Execute", apperrors.InvalidInput("Flow name is required"))
		return
	}
	if req.Input == nil {
		req.Input = make(map[string]any)
	}

	h.log.Info("Executing flow", "flow", req.Flow)

	output, err := h.service.ExecuteFlow(req.Flow, req.Input)
	if err != nil {
		h.log.Error("Flow execution failed", "flow", req.Flow, "error", err)
		h.writeError(w, "Execute", err)
		return
	}

	if err := httputil.WriteSuccess(w, output); err != nil {
		h.log.Error("failed to write success response", "handler", "Execute", "error", err)
	}
}

func (h *FlowHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, map[string]any{"flows": h.service.AvailableFlows()}); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *FlowHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/flows/execute", h.Execute)
	router.GET("/api/v1/flows", h.List)
}
