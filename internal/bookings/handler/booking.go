package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"nestbook/internal/availability"
	"nestbook/internal/bookings/service"
	mongodb "nestbook/pkg/db/mongo"
	apperrors "nestbook/pkg/errors"
	httputil "nestbook/pkg/http"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// actorHeader carries the acting user on mutating requests. The same
// header feeds the per-actor rate limiter.
const actorHeader = "X-User-ID"

type BookingHandler struct {
	service      service.BookingService
	availability availability.Service
	watchColl    *mongo.Collection
	log          *logger.Logger
}

func NewBookingHandler(
	svc service.BookingService,
	avail availability.Service,
	watchColl *mongo.Collection,
	log *logger.Logger,
) *BookingHandler {
	return &BookingHandler{
		service:      svc,
		availability: avail,
		watchColl:    watchColl,
		log:          log,
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) writeSuccess(w http.ResponseWriter, handlerName string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handlerName, "error", err)
	}
}

func actorID(r *http.Request) (string, error) {
	actor := r.Header.Get(actorHeader)
	if actor == "" {
		return "", apperrors.InvalidInput("Missing " + actorHeader + " header")
	}
	return actor, nil
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", booking)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	propertyID := query.Get("property_id")
	if propertyID == "" {
		h.writeError(w, "Search", apperrors.InvalidInput("The 'property_id' query parameter is required"))
		return
	}
	activeOnly := query.Get("active") == "true"

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	bookings, total, err := h.service.SearchByProperty(r.Context(), propertyID, activeOnly, limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

// Availability reports date conflicts for a start/end range without
// creating anything.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	propertyID := r.URL.Query().Get("property_id")
	if propertyID == "" {
		h.writeError(w, "Availability", apperrors.InvalidInput("The 'property_id' query parameter is required"))
		return
	}

	start, err := httputil.ExtractTime(r, "start_date")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	end, err := httputil.ExtractTime(r, "end_date")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	if start.IsZero() || end.IsZero() {
		h.writeError(w, "Availability", apperrors.InvalidInput("Both 'start_date' and 'end_date' query parameters are required"))
		return
	}

	dates := model.DateRange(start, end)
	if dates == nil {
		h.writeError(w, "Availability", apperrors.InvalidInput("end_date must not precede start_date"))
		return
	}

	report, err := h.availability.Check(r.Context(), propertyID, dates)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	h.writeSuccess(w, "Availability", report)
}

func (h *BookingHandler) Invite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, "Invite", err)
		return
	}

	var body struct {
		TenantIDs []string `json:"tenant_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "Invite", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.InviteCoTenants(r.Context(), ps.ByName("id"), actor, body.TenantIDs)
	if err != nil {
		h.writeError(w, "Invite", err)
		return
	}
	h.writeSuccess(w, "Invite", booking)
}

func (h *BookingHandler) Respond(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, "Respond", err)
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "Respond", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.RespondToInvitation(r.Context(), ps.ByName("id"), actor, body.Accept)
	if err != nil {
		h.writeError(w, "Respond", err)
		return
	}
	h.writeSuccess(w, "Respond", booking)
}

// RespondByToken lets an invitee answer with the opaque token from the
// invitation alert, no identity header needed.
func (h *BookingHandler) RespondByToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Token  string `json:"token"`
		Accept bool   `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "RespondByToken", apperrors.InvalidInput("Invalid request body"))
		return
	}
	if body.Token == "" {
		h.writeError(w, "RespondByToken", apperrors.InvalidInput("Token is required"))
		return
	}

	booking, err := h.service.RespondByToken(r.Context(), body.Token, body.Accept)
	if err != nil {
		h.writeError(w, "RespondByToken", err)
		return
	}
	h.writeSuccess(w, "RespondByToken", booking)
}

func (h *BookingHandler) ApproveViewing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, "ApproveViewing", err)
		return
	}

	var body struct {
		ViewingDate *time.Time `json:"viewing_date,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "ApproveViewing", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.ApproveViewing(r.Context(), ps.ByName("id"), actor, body.ViewingDate)
	if err != nil {
		h.writeError(w, "ApproveViewing", err)
		return
	}
	h.writeSuccess(w, "ApproveViewing", booking)
}

func (h *BookingHandler) ApproveBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, "ApproveBooking", err)
		return
	}

	booking, err := h.service.ApproveBooking(r.Context(), ps.ByName("id"), actor)
	if err != nil {
		h.writeError(w, "ApproveBooking", err)
		return
	}
	h.writeSuccess(w, "ApproveBooking", booking)
}

func (h *BookingHandler) Evict(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, "Evict", err)
		return
	}

	var body struct {
		TenantIDs []string `json:"tenant_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "Evict", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.EvictTenants(r.Context(), ps.ByName("id"), actor, body.TenantIDs)
	if err != nil {
		h.writeError(w, "Evict", err)
		return
	}
	h.writeSuccess(w, "Evict", booking)
}

func (h *BookingHandler) Decline(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, "Decline", err)
		return
	}

	booking, err := h.service.Decline(r.Context(), ps.ByName("id"), actor)
	if err != nil {
		h.writeError(w, "Decline", err)
		return
	}
	h.writeSuccess(w, "Decline", booking)
}

func (h *BookingHandler) CompleteSweep(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		AsOf time.Time `json:"as_of"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "CompleteSweep", apperrors.InvalidInput("Invalid request body"))
		return
	}
	if body.AsOf.IsZero() {
		body.AsOf = time.Now().UTC()
	}

	completed, err := h.service.CompleteSweep(r.Context(), body.AsOf)
	if err != nil {
		h.writeError(w, "CompleteSweep", err)
		return
	}
	h.writeSuccess(w, "CompleteSweep", map[string]int{"completed": completed})
}

// Watch streams booking changes as newline-delimited JSON until the
// client disconnects or the request deadline fires. An optional
// property_id narrows the feed to one property.
func (h *BookingHandler) Watch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, "Watch", apperrors.Internal("Streaming is not supported", nil))
		return
	}

	var match bson.D
	if propertyID := r.URL.Query().Get("property_id"); propertyID != "" {
		match = bson.D{{Key: "fullDocument.property_id", Value: propertyID}}
	}

	sub, err := mongodb.Watch(r.Context(), h.log, h.watchColl, match)
	if err != nil {
		h.writeError(w, "Watch", err)
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	encoder := json.NewEncoder(w)
	for event := range sub.Events() {
		update := struct {
			Operation string         `json:"operation"`
			Booking   *model.Booking `json:"booking,omitempty"`
		}{Operation: event.OperationType}

		if len(event.FullDocument) > 0 {
			var booking model.Booking
			if err := bson.Unmarshal(event.FullDocument, &booking); err != nil {
				h.log.Error("failed to decode booking change", "handler", "Watch", "error", err)
				continue
			}
			update.Booking = &booking
		}

		if err := encoder.Encode(update); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/watch", h.Watch)
	router.GET("/api/v1/availability", h.Availability)

	router.POST("/api/v1/bookings/id/:id/invite", h.Invite)
	router.POST("/api/v1/bookings/id/:id/respond", h.Respond)
	router.POST("/api/v1/bookings/respond/token", h.RespondByToken)
	router.POST("/api/v1/bookings/id/:id/viewing", h.ApproveViewing)
	router.POST("/api/v1/bookings/id/:id/approve", h.ApproveBooking)
	router.POST("/api/v1/bookings/id/:id/evict", h.Evict)
	router.POST("/api/v1/bookings/id/:id/decline", h.Decline)
	router.POST("/api/v1/bookings/sweep/complete", h.CompleteSweep)
}
