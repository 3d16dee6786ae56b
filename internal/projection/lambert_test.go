package projection

import (
	"math"
	"testing"
)

func TestToProjectedOrigin(t *testing.T) {
	// At the projection origin the easting is exactly the false easting
	// (300000 m expressed in US feet) and the northing is zero.
	x, y := ToProjected(lonOriginDeg, latOriginDeg)

	wantX := falseEastingM / usFootMeters
	if math.Abs(x-wantX) > 0.01 {
		t.Errorf("origin easting = %f, want %f", x, wantX)
	}
	if math.Abs(y) > 0.01 {
		t.Errorf("origin northing = %f, want 0", y)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		lat  float64
	}{
		{"downtown", -73.99, 40.69},
		{"south shore", -73.95, 40.58},
		{"east edge", -73.87, 40.65},
		{"north edge", -74.00, 40.72},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := ToProjected(tc.lon, tc.lat)
			lat, lon, ok := ToGeographic(x, y)
			if !ok {
				t.Fatalf("ToGeographic(%f, %f) failed", x, y)
			}
			if math.Abs(lat-tc.lat) > 1e-9 {
				t.Errorf("lat round-trip %f -> %f", tc.lat, lat)
			}
			if math.Abs(lon-tc.lon) > 1e-9 {
				t.Errorf("lon round-trip %f -> %f", tc.lon, lon)
			}
		})
	}
}

func TestToGeographicRejectsImplausible(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		y    float64
	}{
		{"zero zero", 0, 0},
		{"nan x", math.NaN(), 150000},
		{"inf y", 980000, math.Inf(1)},
		{"far west", -2e6, 150000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, ok := ToGeographic(tc.x, tc.y); ok {
				t.Errorf("ToGeographic(%f, %f) accepted a point outside the plausibility box", tc.x, tc.y)
			}
		})
	}
}

func TestToGeographicInBounds(t *testing.T) {
	// a coordinate well inside the borough should land inside the
	// plausibility box
	x, y := ToProjected(-73.94, 40.65)
	lat, lon, ok := ToGeographic(x, y)
	if !ok {
		t.Fatal("conversion failed for an in-borough point")
	}
	if lat < MinLat || lat > MaxLat || lon < MinLon || lon > MaxLon {
		t.Errorf("result (%f, %f) outside plausibility bounds", lat, lon)
	}
}
