package geo

import (
	"math"
	"testing"

	"nestbook/pkg/model"
)

var (
	telAviv   = model.Coordinates{Lat: 32.0853, Lng: 34.7818}
	haifa     = model.Coordinates{Lat: 32.7940, Lng: 34.9896}
	jerusalem = model.Coordinates{Lat: 31.7683, Lng: 35.2137}
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name      string
		a, b      model.Coordinates
		wantKm    float64
		tolerance float64
	}{
		{"same point", telAviv, telAviv, 0, 0.001},
		{"tel aviv to haifa", telAviv, haifa, 81, 3},
		{"tel aviv to jerusalem", telAviv, jerusalem, 54, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("DistanceKm = %.1f, want %.1f ± %.1f", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	ab := DistanceKm(telAviv, haifa)
	ba := DistanceKm(haifa, telAviv)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance is not symmetric: %v vs %v", ab, ba)
	}
}

func TestWithinRadius(t *testing.T) {
	if !WithinRadius(telAviv, haifa, 100) {
		t.Error("haifa should be within 100km of tel aviv")
	}
	if WithinRadius(telAviv, haifa, 50) {
		t.Error("haifa should not be within 50km of tel aviv")
	}
	if !WithinRadius(telAviv, telAviv, 0) {
		t.Error("a point is within zero distance of itself")
	}
}
