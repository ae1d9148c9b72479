package validator

import (
	"testing"

	"nestbook/pkg/logger"
	"nestbook/pkg/model"
)

func newValidator() *PropertyValidator {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewPropertyValidator(log)
}

func validApartment() *model.Property {
	return &model.Property{
		Type:       model.PropertyApartment,
		OwnerID:    "owner-1",
		Title:      "Garden duplex",
		City:       "Tel Aviv",
		Status:     model.PropertyAvailable,
		Price:      5500,
		LeaseTerms: []int{6, 12},
		Apartment:  &model.ApartmentDetails{Bedrooms: 3, Bathrooms: 2},
	}
}

func validTransient() *model.Property {
	return &model.Property{
		Type:       model.PropertyTransient,
		OwnerID:    "owner-1",
		Title:      "Harbor loft",
		City:       "Haifa",
		Status:     model.PropertyAvailable,
		Price:      120,
		LeaseTerms: []int{1, 3, 7},
		Transient:  &model.TransientDetails{MaxGuests: 4, MinStayDays: 2},
	}
}

func TestValidate_ValidListings(t *testing.T) {
	v := newValidator()

	if err := v.Validate(validApartment()); err != nil {
		t.Errorf("unexpected error for apartment: %v", err)
	}
	if err := v.Validate(validTransient()); err != nil {
		t.Errorf("unexpected error for transient: %v", err)
	}
}

func TestValidate_StructRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Property)
	}{
		{"missing owner", func(p *model.Property) { p.OwnerID = "" }},
		{"title too short", func(p *model.Property) { p.Title = "x" }},
		{"missing city", func(p *model.Property) { p.City = "" }},
		{"unknown status", func(p *model.Property) { p.Status = "paused" }},
		{"zero price", func(p *model.Property) { p.Price = 0 }},
		{"negative price", func(p *model.Property) { p.Price = -10 }},
		{"no lease terms", func(p *model.Property) { p.LeaseTerms = nil }},
		{"zero lease term", func(p *model.Property) { p.LeaseTerms = []int{0} }},
		{"latitude out of range", func(p *model.Property) { p.Coordinates.Lat = 95 }},
		{"unknown type", func(p *model.Property) { p.Type = "houseboat" }},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			property := validApartment()
			tt.mutate(property)
			if err := v.Validate(property); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidate_VariantRules(t *testing.T) {
	v := newValidator()

	t.Run("apartment without details", func(t *testing.T) {
		p := validApartment()
		p.Apartment = nil
		if err := v.Validate(p); err == nil {
			t.Error("expected error for missing apartment details")
		}
	})

	t.Run("apartment with transient details", func(t *testing.T) {
		p := validApartment()
		p.Transient = &model.TransientDetails{MaxGuests: 2, MinStayDays: 1}
		if err := v.Validate(p); err == nil {
			t.Error("expected error for both detail blocks present")
		}
	})

	t.Run("transient without details", func(t *testing.T) {
		p := validTransient()
		p.Transient = nil
		if err := v.Validate(p); err == nil {
			t.Error("expected error for missing transient details")
		}
	})

	t.Run("transient with apartment details", func(t *testing.T) {
		p := validTransient()
		p.Apartment = &model.ApartmentDetails{Bedrooms: 1, Bathrooms: 1}
		if err := v.Validate(p); err == nil {
			t.Error("expected error for both detail blocks present")
		}
	})

	t.Run("apartment with zero bedrooms", func(t *testing.T) {
		p := validApartment()
		p.Apartment.Bedrooms = 0
		if err := v.Validate(p); err == nil {
			t.Error("expected error for zero bedrooms")
		}
	})

	t.Run("transient with zero max guests", func(t *testing.T) {
		p := validTransient()
		p.Transient.MaxGuests = 0
		if err := v.Validate(p); err == nil {
			t.Error("expected error for zero max guests")
		}
	})
}
