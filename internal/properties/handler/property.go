package handler

import (
	"encoding/json"
	"net/http"

	"nestbook/internal/properties/service"
	apperrors "nestbook/pkg/errors"
	httputil "nestbook/pkg/http"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PropertyHandler struct {
	service service.PropertyService
	log     *logger.Logger
}

func NewPropertyHandler(svc service.PropertyService, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: svc,
		log:     log,
	}
}

func (h *PropertyHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var property model.Property
	if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &property)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	property, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *PropertyHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	properties, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, properties, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PropertyUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	property, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write no-content response", "handler", "Delete", "error", err)
	}
}

func (h *PropertyHandler) Nearby(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lat, hasLat, err := httputil.ExtractFloat(r, "lat")
	if err != nil {
		h.writeError(w, "Nearby", err)
		return
	}
	lng, hasLng, err := httputil.ExtractFloat(r, "lng")
	if err != nil {
		h.writeError(w, "Nearby", err)
		return
	}
	if !hasLat || !hasLng {
		h.writeError(w, "Nearby", apperrors.InvalidInput("Both 'lat' and 'lng' query parameters are required"))
		return
	}

	radiusKm, hasRadius, err := httputil.ExtractFloat(r, "radius_km")
	if err != nil {
		h.writeError(w, "Nearby", err)
		return
	}
	if !hasRadius {
		h.writeError(w, "Nearby", apperrors.InvalidInput("The 'radius_km' query parameter is required"))
		return
	}

	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Nearby", err)
		return
	}

	properties, err := h.service.Nearby(r.Context(), model.Coordinates{Lat: lat, Lng: lng}, radiusKm, limit)
	if err != nil {
		h.writeError(w, "Nearby", err)
		return
	}

	if err := httputil.WriteSuccess(w, properties); err != nil {
		h.log.Error("failed to write success response", "handler", "Nearby", "error", err)
	}
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/properties", h.Create)
	router.GET("/api/v1/properties", h.GetAll)
	router.GET("/api/v1/properties/id/:id", h.GetByID)
	router.PATCH("/api/v1/properties/id/:id", h.Update)
	router.DELETE("/api/v1/properties/id/:id", h.Delete)
	router.GET("/api/v1/properties/nearby", h.Nearby)
}
