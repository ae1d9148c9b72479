package model

import "time"

// BookingRequest is the wire shape for creating a booking. Dates can
// be given as an explicit list or as an inclusive start/end range, but
// not both.
type BookingRequest struct {
	PropertyID    string      `json:"property_id" validate:"required,mongodb"`
	HostID        string      `json:"host_id" validate:"required"`
	RequestID     string      `json:"request_id,omitempty"`
	Dates         []time.Time `json:"dates,omitempty"`
	StartDate     *time.Time  `json:"start_date,omitempty"`
	EndDate       *time.Time  `json:"end_date,omitempty"`
	LeaseDuration int         `json:"lease_duration" validate:"required,min=1"`
}
