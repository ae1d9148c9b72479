package service

import (
	"context"
	"fmt"
	"time"

	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/model"
	"nestbook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// InviteCoTenants moves a fresh booking to pending_invitation and adds
// the invited users. Only the host may invite, and only before any
// viewing is approved. Each invitee is alerted with an opaque token
// they can answer without a session.
func (s *bookingService) InviteCoTenants(ctx context.Context, bookingID, actorID string, tenantIDs []string) (*model.Booking, error) {
	tenantIDs = sanitizer.SanitizeUserIDs(tenantIDs)
	if len(tenantIDs) == 0 {
		return nil, apperrors.InvalidInput("At least one tenant is required")
	}

	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	host := booking.Host()
	if host == nil || host.UserID != actorID {
		return nil, apperrors.Forbidden("Only the booking host can invite co-tenants")
	}

	// Further invitations are fine while earlier ones are still open.
	if booking.Status != model.StatusPendingInvitation && !booking.Status.CanTransition(model.StatusPendingInvitation) {
		return nil, apperrors.InvalidTransition(string(booking.Status), "invite")
	}

	for _, id := range tenantIDs {
		if booking.TenantByUser(id) != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("User %q is already part of this booking", id))
		}
		booking.Tenants = append(booking.Tenants, model.Tenant{
			UserID: id,
			Status: model.TenantInvited,
		})
	}

	booking.Status = model.StatusPendingInvitation

	if err := s.repo.UpdateVersioned(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to invite co-tenants", "id", bookingID, "error", err)
		return nil, s.mapRepoError(err, bookingID)
	}

	s.cfg.Log.Info("Co-tenants invited", "id", bookingID, "invited", len(tenantIDs))

	for _, id := range tenantIDs {
		token, tokenErr := s.sealer.CreateInvitationToken(booking.ID, id)
		if tokenErr != nil {
			s.cfg.Log.Error("Failed to mint invitation token", "id", bookingID, "user_id", id, "error", tokenErr)
		}
		s.notify(ctx, &model.Alert{
			Type:       model.AlertInvitation,
			Message:    fmt.Sprintf("%s invited you to join a booking", actorID),
			PropertyID: booking.PropertyID,
			BookingID:  booking.ID,
			Sender:     actorID,
			Receiver:   id,
			Token:      token,
		})
	}

	return booking, nil
}

// RespondToInvitation records an invitee's answer. A decline is final
// for the whole request: the booking and every sibling created under
// the same request id are declined together.
func (s *bookingService) RespondToInvitation(ctx context.Context, bookingID, userID string, accept bool) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.StatusPendingInvitation {
		return nil, apperrors.InvalidTransition(string(booking.Status), "respond_to_invitation")
	}

	tenant := booking.TenantByUser(userID)
	if tenant == nil {
		return nil, apperrors.Forbidden("User is not invited to this booking")
	}
	if tenant.Status != model.TenantInvited {
		// Answering twice is a no-op, not an error.
		s.cfg.Log.Info("Invitation already answered", "id", bookingID, "user_id", userID, "status", tenant.Status)
		return booking, nil
	}

	if !accept {
		return s.declineRequest(ctx, booking, userID)
	}

	tenant.Status = model.TenantAccepted

	if err := s.repo.UpdateVersioned(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to record invitation response", "id", bookingID, "error", err)
		return nil, s.mapRepoError(err, bookingID)
	}

	s.cfg.Log.Info("Invitation accepted", "id", bookingID, "user_id", userID)

	s.notify(ctx, &model.Alert{
		Type:       model.AlertInvitationResponse,
		Message:    fmt.Sprintf("%s accepted the booking invitation", userID),
		PropertyID: booking.PropertyID,
		BookingID:  booking.ID,
		Sender:     userID,
		Receiver:   booking.Host().UserID,
	})

	return booking, nil
}

// RespondByToken answers an invitation using the opaque token from the
// invitation alert.
func (s *bookingService) RespondByToken(ctx context.Context, token string, accept bool) (*model.Booking, error) {
	bookingID, userID, err := s.sealer.ParseInvitationToken(token)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid invitation token")
	}
	return s.RespondToInvitation(ctx, bookingID, userID, accept)
}

// declineRequest declines the booking and every sibling issued under
// the same request id, in one transaction. The decliner's own booking
// is written versioned so the tenant's answer is persisted with it.
func (s *bookingService) declineRequest(ctx context.Context, booking *model.Booking, decliner string) (*model.Booking, error) {
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		siblings, err := s.repo.FindByRequestID(sessCtx, booking.RequestID)
		if err != nil {
			return apperrors.Internal("Failed to load sibling bookings", err)
		}

		ids := make([]string, 0, len(siblings))
		for _, sib := range siblings {
			if sib.ID == booking.ID || sib.Status.Terminal() {
				continue
			}
			ids = append(ids, sib.ID)
		}

		if _, err := s.repo.DeclineMany(sessCtx, ids); err != nil {
			return apperrors.Internal("Failed to decline bookings", err)
		}

		booking.Status = model.StatusBookingDeclined
		if tenant := booking.TenantByUser(decliner); tenant != nil {
			tenant.Status = model.TenantDeclined
		}
		if err := s.repo.UpdateVersioned(sessCtx, booking); err != nil {
			return s.mapRepoError(err, booking.ID)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cascade invitation decline", "id", booking.ID, "request_id", booking.RequestID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Invitation declined, request cancelled",
		"id", booking.ID,
		"request_id", booking.RequestID,
		"declined_by", decliner,
	)

	s.notify(ctx, &model.Alert{
		Type:       model.AlertBookingDeclined,
		Message:    fmt.Sprintf("%s declined the booking invitation", decliner),
		PropertyID: booking.PropertyID,
		BookingID:  booking.ID,
		Sender:     decliner,
		Receiver:   booking.Host().UserID,
	})

	return booking, nil
}

// ApproveViewing is the owner's first approval. It requires every
// outstanding invitation to be accepted and moves the booking to
// viewing_confirmed.
func (s *bookingService) ApproveViewing(ctx context.Context, bookingID, actorID string, viewingDate *time.Time) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.OwnerID != actorID {
		return nil, apperrors.Forbidden("Only the property owner can approve a viewing")
	}

	// Re-approving is a no-op, not an error.
	if booking.Status == model.StatusViewingConfirmed {
		return booking, nil
	}

	if !booking.Status.CanTransition(model.StatusViewingConfirmed) {
		return nil, apperrors.InvalidTransition(string(booking.Status), "approve_viewing")
	}

	if !booking.AllInvitationsAccepted() {
		return nil, apperrors.Conflict("All invited co-tenants must accept before a viewing can be approved")
	}

	booking.Status = model.StatusViewingConfirmed
	if viewingDate != nil {
		normalized := model.NormalizeDate(*viewingDate)
		booking.ViewingDate = &normalized
	}

	if err := s.repo.UpdateVersioned(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to approve viewing", "id", bookingID, "error", err)
		return nil, s.mapRepoError(err, bookingID)
	}

	s.cfg.Log.Info("Viewing approved", "id", bookingID, "owner_id", actorID)

	s.notifyTenants(ctx, booking, &model.Alert{
		Type:       model.AlertViewingApproved,
		Message:    "The owner approved a viewing for your booking",
		PropertyID: booking.PropertyID,
		BookingID:  booking.ID,
		Sender:     actorID,
	})

	return booking, nil
}

// ApproveBooking is the owner's final approval. Confirming one booking
// declines every other active booking on the property whose dates
// overlap, atomically with the confirmation.
func (s *bookingService) ApproveBooking(ctx context.Context, bookingID, actorID string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.OwnerID != actorID {
		return nil, apperrors.Forbidden("Only the property owner can approve a booking")
	}

	// Re-approving is a no-op, not an error.
	if booking.Status == model.StatusBookingConfirmed {
		return booking, nil
	}

	if !booking.Status.CanTransition(model.StatusBookingConfirmed) {
		return nil, apperrors.InvalidTransition(string(booking.Status), "approve_booking")
	}

	var displaced []*model.Booking

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		active, err := s.repo.FindByProperty(sessCtx, booking.PropertyID, true, 0, 0)
		if err != nil {
			return apperrors.Internal("Failed to load active bookings", err)
		}

		displaced = displaced[:0]
		ids := make([]string, 0, len(active))
		for _, other := range active {
			if other.ID == booking.ID {
				continue
			}
			if len(model.IntersectDates(other.BookedDates, booking.BookedDates)) == 0 {
				continue
			}
			ids = append(ids, other.ID)
			displaced = append(displaced, other)
		}

		if _, err := s.repo.DeclineMany(sessCtx, ids); err != nil {
			return apperrors.Internal("Failed to decline overlapping bookings", err)
		}

		booking.Status = model.StatusBookingConfirmed
		if err := s.repo.UpdateVersioned(sessCtx, booking); err != nil {
			return s.mapRepoError(err, bookingID)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to approve booking", "id", bookingID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking approved",
		"id", bookingID,
		"owner_id", actorID,
		"displaced", len(displaced),
	)

	s.notifyTenants(ctx, booking, &model.Alert{
		Type:       model.AlertBookingApproved,
		Message:    "Your booking was approved",
		PropertyID: booking.PropertyID,
		BookingID:  booking.ID,
		Sender:     actorID,
	})

	for _, other := range displaced {
		if host := other.Host(); host != nil {
			s.notify(ctx, &model.Alert{
				Type:       model.AlertBookingDeclined,
				Message:    "Your booking was declined: the dates were approved for another request",
				PropertyID: other.PropertyID,
				BookingID:  other.ID,
				Sender:     actorID,
				Receiver:   host.UserID,
			})
		}
	}

	return booking, nil
}

// EvictTenants removes tenants from a confirmed booking. Evicting the
// last tenant declines the booking and releases its dates.
func (s *bookingService) EvictTenants(ctx context.Context, bookingID, actorID string, tenantIDs []string) (*model.Booking, error) {
	tenantIDs = sanitizer.SanitizeUserIDs(tenantIDs)
	if len(tenantIDs) == 0 {
		return nil, apperrors.InvalidInput("At least one tenant is required")
	}

	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.OwnerID != actorID {
		return nil, apperrors.Forbidden("Only the property owner can evict tenants")
	}

	if booking.Status != model.StatusBookingConfirmed {
		return nil, apperrors.InvalidTransition(string(booking.Status), "evict")
	}

	remaining := make([]model.Tenant, 0, len(booking.Tenants))
	evict := make(map[string]struct{}, len(tenantIDs))
	for _, id := range tenantIDs {
		if booking.TenantByUser(id) == nil {
			return nil, apperrors.NotFoundWithID("Tenant", id)
		}
		evict[id] = struct{}{}
	}
	for _, t := range booking.Tenants {
		if _, gone := evict[t.UserID]; !gone {
			remaining = append(remaining, t)
		}
	}
	booking.Tenants = remaining

	// An empty booking holds dates for no one.
	if len(booking.Tenants) == 0 {
		booking.Status = model.StatusBookingDeclined
	}

	if err := s.repo.UpdateVersioned(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to evict tenants", "id", bookingID, "error", err)
		return nil, s.mapRepoError(err, bookingID)
	}

	s.cfg.Log.Info("Tenants evicted",
		"id", bookingID,
		"evicted", len(tenantIDs),
		"status", booking.Status,
	)

	for _, id := range tenantIDs {
		s.notify(ctx, &model.Alert{
			Type:       model.AlertTenantEvicted,
			Message:    "You were removed from a booking",
			PropertyID: booking.PropertyID,
			BookingID:  booking.ID,
			Sender:     actorID,
			Receiver:   id,
		})
	}

	return booking, nil
}

// Decline ends a booking from any non-terminal state. Owner and host
// may both decline; a second decline is a no-op.
func (s *bookingService) Decline(ctx context.Context, bookingID, actorID string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	host := booking.Host()
	if booking.OwnerID != actorID && (host == nil || host.UserID != actorID) {
		return nil, apperrors.Forbidden("Only the property owner or the booking host can decline")
	}

	if booking.Status == model.StatusBookingDeclined {
		return booking, nil
	}

	if !booking.Status.CanTransition(model.StatusBookingDeclined) {
		return nil, apperrors.InvalidTransition(string(booking.Status), "decline")
	}

	booking.Status = model.StatusBookingDeclined

	if err := s.repo.UpdateVersioned(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to decline booking", "id", bookingID, "error", err)
		return nil, s.mapRepoError(err, bookingID)
	}

	s.cfg.Log.Info("Booking declined", "id", bookingID, "declined_by", actorID)

	s.notifyTenants(ctx, booking, &model.Alert{
		Type:       model.AlertBookingDeclined,
		Message:    "The booking was declined",
		PropertyID: booking.PropertyID,
		BookingID:  booking.ID,
		Sender:     actorID,
	})

	return booking, nil
}

// notifyTenants fans one alert out to every tenant except the sender,
// plus the owner when someone else acted.
func (s *bookingService) notifyTenants(ctx context.Context, booking *model.Booking, alert *model.Alert) {
	for _, t := range booking.Tenants {
		if t.UserID == alert.Sender {
			continue
		}
		a := *alert
		a.Receiver = t.UserID
		s.notify(ctx, &a)
	}
	if booking.OwnerID != alert.Sender {
		a := *alert
		a.Receiver = booking.OwnerID
		s.notify(ctx, &a)
	}
}
