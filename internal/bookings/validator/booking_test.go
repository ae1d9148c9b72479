package validator

import (
	"testing"
	"time"

	"nestbook/pkg/logger"
	"nestbook/pkg/model"
)

func newValidator() *BookingValidator {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingValidator(log)
}

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func validBooking() *model.Booking {
	return &model.Booking{
		PropertyID:    "507f1f77bcf86cd799439011",
		OwnerID:       "owner-1",
		Tenants:       []model.Tenant{{UserID: "host-1", Status: model.TenantHost}},
		Status:        model.StatusBooked,
		BookedDates:   []time.Time{day(1), day(2)},
		LeaseDuration: 3,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := newValidator().Validate(validBooking()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{"missing property id", func(b *model.Booking) { b.PropertyID = "" }},
		{"malformed property id", func(b *model.Booking) { b.PropertyID = "not-hex" }},
		{"missing owner", func(b *model.Booking) { b.OwnerID = "" }},
		{"no tenants", func(b *model.Booking) { b.Tenants = nil }},
		{"no host", func(b *model.Booking) {
			b.Tenants = []model.Tenant{{UserID: "a", Status: model.TenantAccepted}}
		}},
		{"two hosts", func(b *model.Booking) {
			b.Tenants = append(b.Tenants, model.Tenant{UserID: "b", Status: model.TenantHost})
		}},
		{"duplicate tenant", func(b *model.Booking) {
			b.Tenants = append(b.Tenants, model.Tenant{UserID: "host-1", Status: model.TenantAccepted})
		}},
		{"unknown status", func(b *model.Booking) { b.Status = "cancelled" }},
		{"no dates", func(b *model.Booking) { b.BookedDates = nil }},
		{"duplicate dates", func(b *model.Booking) { b.BookedDates = []time.Time{day(1), day(1)} }},
		{"descending dates", func(b *model.Booking) { b.BookedDates = []time.Time{day(2), day(1)} }},
		{"zero lease duration", func(b *model.Booking) { b.LeaseDuration = 0 }},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)
			if err := v.Validate(booking); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateAgainstProperty(t *testing.T) {
	v := newValidator()

	apartment := &model.Property{
		Type:       model.PropertyApartment,
		Status:     model.PropertyAvailable,
		LeaseTerms: []int{12},
		Apartment:  &model.ApartmentDetails{Bedrooms: 2, Bathrooms: 1},
	}
	transient := &model.Property{
		Type:       model.PropertyTransient,
		Status:     model.PropertyAvailable,
		LeaseTerms: []int{3},
		Transient:  &model.TransientDetails{MaxGuests: 2, MinStayDays: 3},
	}

	t.Run("unavailable listing", func(t *testing.T) {
		p := *apartment
		p.Status = model.PropertyUnavailable
		if err := v.ValidateAgainstProperty(validBooking(), &p); err == nil {
			t.Error("expected error for unavailable listing")
		}
	})

	t.Run("apartment requires contiguous dates", func(t *testing.T) {
		b := validBooking()
		b.BookedDates = []time.Time{day(1), day(3)}
		if err := v.ValidateAgainstProperty(b, apartment); err == nil {
			t.Error("expected error for gapped apartment dates")
		}
	})

	t.Run("transient allows gaps", func(t *testing.T) {
		b := validBooking()
		b.BookedDates = []time.Time{day(1), day(3), day(5)}
		if err := v.ValidateAgainstProperty(b, transient); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("transient minimum stay", func(t *testing.T) {
		b := validBooking()
		b.BookedDates = []time.Time{day(1), day(2)}
		if err := v.ValidateAgainstProperty(b, transient); err == nil {
			t.Error("expected error for a stay below the minimum")
		}
	})
}
