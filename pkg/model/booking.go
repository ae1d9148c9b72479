package model

import (
	"time"
)

type BookingStatus string

const (
	StatusBooked            BookingStatus = "booked"
	StatusPendingInvitation BookingStatus = "pending_invitation"
	StatusViewingConfirmed  BookingStatus = "viewing_confirmed"
	StatusBookingConfirmed  BookingStatus = "booking_confirmed"
	StatusBookingCompleted  BookingStatus = "booking_completed"
	StatusBookingDeclined   BookingStatus = "booking_declined"
)

// transitions is the full lifecycle graph. Declining is reachable from
// every non-terminal state; completion only from a confirmed booking.
var transitions = map[BookingStatus][]BookingStatus{
	StatusBooked:            {StatusPendingInvitation, StatusViewingConfirmed, StatusBookingDeclined},
	StatusPendingInvitation: {StatusViewingConfirmed, StatusBookingDeclined},
	StatusViewingConfirmed:  {StatusBookingConfirmed, StatusBookingDeclined},
	StatusBookingConfirmed:  {StatusBookingCompleted, StatusBookingDeclined},
	StatusBookingCompleted:  {},
	StatusBookingDeclined:   {},
}

func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s BookingStatus) Terminal() bool {
	return s == StatusBookingCompleted || s == StatusBookingDeclined
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// HoldsDates reports whether a booking in this state reserves its dates
// against other candidates. Pending invitations are provisional: several
// of them may coexist on the same property until one is approved.
func (s BookingStatus) HoldsDates() bool {
	switch s {
	case StatusBooked, StatusViewingConfirmed, StatusBookingConfirmed:
		return true
	}
	return false
}

type TenantStatus string

const (
	TenantHost     TenantStatus = "host"
	TenantInvited  TenantStatus = "invited"
	TenantAccepted TenantStatus = "accepted"
	TenantDeclined TenantStatus = "declined"
)

type Tenant struct {
	UserID string       `json:"user_id" bson:"user_id" validate:"required"`
	Status TenantStatus `json:"status" bson:"status" validate:"required,oneof=host invited accepted declined"`
}

type Booking struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID string `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	OwnerID    string `json:"owner_id" bson:"owner_id" validate:"required"`
	// RequestID groups sibling bookings issued by a single client request.
	RequestID     string        `json:"request_id,omitempty" bson:"request_id,omitempty"`
	Tenants       []Tenant      `json:"tenants" bson:"tenants" validate:"required,min=1,single_host,dive"`
	Status        BookingStatus `json:"status" bson:"status" validate:"required,oneof=booked pending_invitation viewing_confirmed booking_confirmed booking_completed booking_declined"`
	BookedDates   []time.Time   `json:"booked_dates" bson:"booked_dates" validate:"required,min=1"`
	LeaseDuration int           `json:"lease_duration" bson:"lease_duration" validate:"required,min=1"`
	ViewingDate   *time.Time    `json:"viewing_date,omitempty" bson:"viewing_date,omitempty"`
	// Version guards read-modify-write updates; every state mutation is
	// conditioned on the version observed at read time.
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Host returns the requesting tenant. Every booking has exactly one.
func (b *Booking) Host() *Tenant {
	for i := range b.Tenants {
		if b.Tenants[i].Status == TenantHost {
			return &b.Tenants[i]
		}
	}
	return nil
}

func (b *Booking) TenantByUser(userID string) *Tenant {
	for i := range b.Tenants {
		if b.Tenants[i].UserID == userID {
			return &b.Tenants[i]
		}
	}
	return nil
}

// AllInvitationsAccepted reports whether no co-tenant is still invited
// or declined. A booking with no co-tenants trivially satisfies it.
func (b *Booking) AllInvitationsAccepted() bool {
	for _, t := range b.Tenants {
		if t.Status == TenantInvited || t.Status == TenantDeclined {
			return false
		}
	}
	return true
}

// LastBookedDate returns the latest reserved date, zero if none.
func (b *Booking) LastBookedDate() time.Time {
	var last time.Time
	for _, d := range b.BookedDates {
		if d.After(last) {
			last = d
		}
	}
	return last
}

type ConflictReport struct {
	PropertyID       string      `json:"property_id"`
	Conflict         bool        `json:"conflict"`
	ConflictingDates []time.Time `json:"conflicting_dates,omitempty"`
}
