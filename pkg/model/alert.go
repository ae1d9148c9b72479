package model

import "time"

type AlertType string

const (
	AlertBookingRequested   AlertType = "booking_requested"
	AlertInvitation         AlertType = "invitation"
	AlertInvitationResponse AlertType = "invitation_response"
	AlertViewingApproved    AlertType = "viewing_approved"
	AlertBookingApproved    AlertType = "booking_approved"
	AlertBookingDeclined    AlertType = "booking_declined"
	AlertTenantEvicted      AlertType = "tenant_evicted"
	AlertBookingCompleted   AlertType = "booking_completed"
	AlertPropertyArchived   AlertType = "property_archived"
	AlertPropertyRestored   AlertType = "property_restored"
)

// Alert is the notification record the engine emits on every booking
// and archive state change. Delivery and read-tracking belong to the
// alerts service; producers treat emission as fire-and-forget.
type Alert struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	Type       AlertType `json:"type" bson:"type" validate:"required"`
	Message    string    `json:"message" bson:"message" validate:"required"`
	PropertyID string    `json:"property_id" bson:"property_id" validate:"required"`
	BookingID  string    `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	// Sender is empty for system-generated alerts such as sweep results.
	Sender   string `json:"sender,omitempty" bson:"sender,omitempty"`
	Receiver string `json:"receiver" bson:"receiver" validate:"required"`
	// Token carries an opaque invitation token when the alert invites a
	// co-tenant to respond.
	Token     string    `json:"token,omitempty" bson:"token,omitempty"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
