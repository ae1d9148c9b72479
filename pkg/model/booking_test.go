package model

import (
	"testing"
	"time"
)

// ────────────────────────────────────────────────
// Lifecycle transitions
// ────────────────────────────────────────────────

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"booked to pending invitation", StatusBooked, StatusPendingInvitation, true},
		{"booked straight to viewing", StatusBooked, StatusViewingConfirmed, true},
		{"booked to declined", StatusBooked, StatusBookingDeclined, true},
		{"booked cannot skip to confirmed", StatusBooked, StatusBookingConfirmed, false},
		{"booked cannot skip to completed", StatusBooked, StatusBookingCompleted, false},
		{"pending to viewing", StatusPendingInvitation, StatusViewingConfirmed, true},
		{"pending to declined", StatusPendingInvitation, StatusBookingDeclined, true},
		{"pending cannot go back to booked", StatusPendingInvitation, StatusBooked, false},
		{"viewing to confirmed", StatusViewingConfirmed, StatusBookingConfirmed, true},
		{"viewing to declined", StatusViewingConfirmed, StatusBookingDeclined, true},
		{"confirmed to completed", StatusBookingConfirmed, StatusBookingCompleted, true},
		{"confirmed to declined", StatusBookingConfirmed, StatusBookingDeclined, true},
		{"completed is terminal", StatusBookingCompleted, StatusBookingDeclined, false},
		{"declined is terminal", StatusBookingDeclined, StatusBooked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	terminal := []BookingStatus{StatusBookingCompleted, StatusBookingDeclined}
	active := []BookingStatus{StatusBooked, StatusPendingInvitation, StatusViewingConfirmed, StatusBookingConfirmed}

	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
}

func TestHoldsDates(t *testing.T) {
	holding := []BookingStatus{StatusBooked, StatusViewingConfirmed, StatusBookingConfirmed}
	free := []BookingStatus{StatusPendingInvitation, StatusBookingCompleted, StatusBookingDeclined}

	for _, s := range holding {
		if !s.HoldsDates() {
			t.Errorf("expected %s to hold its dates", s)
		}
	}
	for _, s := range free {
		if s.HoldsDates() {
			t.Errorf("expected %s not to hold its dates", s)
		}
	}
}

func TestValid_RejectsUnknownStatus(t *testing.T) {
	if BookingStatus("cancelled").Valid() {
		t.Error("unknown status should not be valid")
	}
	if !StatusBooked.Valid() {
		t.Error("booked should be valid")
	}
}

// ────────────────────────────────────────────────
// Tenant helpers
// ────────────────────────────────────────────────

func TestHost(t *testing.T) {
	booking := &Booking{
		Tenants: []Tenant{
			{UserID: "guest-1", Status: TenantInvited},
			{UserID: "host-1", Status: TenantHost},
		},
	}

	host := booking.Host()
	if host == nil {
		t.Fatal("expected a host tenant")
	}
	if host.UserID != "host-1" {
		t.Errorf("expected host-1, got %s", host.UserID)
	}

	// The returned pointer must alias the slice so callers can mutate.
	host.Status = TenantDeclined
	if booking.Tenants[1].Status != TenantDeclined {
		t.Error("Host() should return a pointer into the tenants slice")
	}
}

func TestTenantByUser_Missing(t *testing.T) {
	booking := &Booking{
		Tenants: []Tenant{{UserID: "host-1", Status: TenantHost}},
	}
	if booking.TenantByUser("nobody") != nil {
		t.Error("expected nil for an unknown user")
	}
}

func TestAllInvitationsAccepted(t *testing.T) {
	tests := []struct {
		name    string
		tenants []Tenant
		want    bool
	}{
		{
			"host only",
			[]Tenant{{UserID: "h", Status: TenantHost}},
			true,
		},
		{
			"all accepted",
			[]Tenant{
				{UserID: "h", Status: TenantHost},
				{UserID: "a", Status: TenantAccepted},
			},
			true,
		},
		{
			"one still invited",
			[]Tenant{
				{UserID: "h", Status: TenantHost},
				{UserID: "a", Status: TenantAccepted},
				{UserID: "b", Status: TenantInvited},
			},
			false,
		},
		{
			"one declined",
			[]Tenant{
				{UserID: "h", Status: TenantHost},
				{UserID: "b", Status: TenantDeclined},
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &Booking{Tenants: tt.tenants}
			if got := booking.AllInvitationsAccepted(); got != tt.want {
				t.Errorf("AllInvitationsAccepted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLastBookedDate(t *testing.T) {
	d1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	booking := &Booking{BookedDates: []time.Time{d1, d2, d3}}
	if got := booking.LastBookedDate(); !got.Equal(d2) {
		t.Errorf("expected %v, got %v", d2, got)
	}

	empty := &Booking{}
	if !empty.LastBookedDate().IsZero() {
		t.Error("expected zero time for a booking without dates")
	}
}
