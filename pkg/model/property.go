package model

import "time"

type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyTransient PropertyType = "transient"
)

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyUnavailable PropertyStatus = "unavailable"
	PropertyDeleted     PropertyStatus = "deleted"
)

type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" bson:"lng" validate:"min=-180,max=180"`
}

// ApartmentDetails and TransientDetails are the variant halves of the
// Property tagged union. Exactly one of them must be present, matching
// the Type discriminant; documents with an unrecognized shape are
// rejected at the boundary instead of being duck-typed through.
type ApartmentDetails struct {
	Bedrooms  int  `json:"bedrooms" bson:"bedrooms" validate:"min=1"`
	Bathrooms int  `json:"bathrooms" bson:"bathrooms" validate:"min=1"`
	Furnished bool `json:"furnished" bson:"furnished"`
}

type TransientDetails struct {
	MaxGuests   int `json:"max_guests" bson:"max_guests" validate:"min=1"`
	MinStayDays int `json:"min_stay_days" bson:"min_stay_days" validate:"min=1"`
}

type Property struct {
	ID          string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Type        PropertyType   `json:"type" bson:"type" validate:"required,oneof=apartment transient"`
	OwnerID     string         `json:"owner_id" bson:"owner_id" validate:"required"`
	Title       string         `json:"title" bson:"title" validate:"required,min=2,max=120"`
	Description string         `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	City        string         `json:"city" bson:"city" validate:"required,min=2,max=80"`
	Status      PropertyStatus `json:"status" bson:"status" validate:"required,oneof=available unavailable deleted"`
	Price       float64        `json:"price" bson:"price" validate:"required,gt=0"`
	// LeaseTerms lists the allowed lease durations: months for
	// apartments, days for transients.
	LeaseTerms  []int             `json:"lease_terms" bson:"lease_terms" validate:"required,min=1,dive,min=1"`
	Coordinates Coordinates       `json:"coordinates" bson:"coordinates"`
	Apartment   *ApartmentDetails `json:"apartment,omitempty" bson:"apartment,omitempty"`
	Transient   *TransientDetails `json:"transient,omitempty" bson:"transient,omitempty"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

func (p *Property) OffersLeaseTerm(duration int) bool {
	for _, term := range p.LeaseTerms {
		if term == duration {
			return true
		}
	}
	return false
}

type PropertyUpdate struct {
	Title       string          `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	City        string          `json:"city,omitempty" validate:"omitempty,min=2,max=80"`
	Status      PropertyStatus  `json:"status,omitempty" validate:"omitempty,oneof=available unavailable deleted"`
	Price       *float64        `json:"price,omitempty" validate:"omitempty,gt=0"`
	LeaseTerms  *[]int          `json:"lease_terms,omitempty" validate:"omitempty,min=1,dive,min=1"`
	Coordinates *Coordinates    `json:"coordinates,omitempty"`
	Apartment   *ApartmentDetails `json:"apartment,omitempty"`
	Transient   *TransientDetails `json:"transient,omitempty"`
}
