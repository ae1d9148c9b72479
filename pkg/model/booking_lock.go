package model

import "time"

// BookingLock is an advisory lock document. Its _id is derived from the
// property being booked, so concurrent create requests for the same
// property collide on the unique index and lose deterministically.
type BookingLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
