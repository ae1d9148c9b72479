package geo

import (
	"math"

	"nestbook/pkg/model"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points
// using the haversine formula. Good to well under listing-search
// precision at city scale.
func DistanceKm(a, b model.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether b lies within radiusKm of a.
func WithinRadius(a, b model.Coordinates, radiusKm float64) bool {
	return DistanceKm(a, b) <= radiusKm
}
