package planner

import (
	"math"
	"testing"
)

func TestDistanceKM_Fallback(t *testing.T) {
	lat := 12.0
	cases := []struct {
		name string
		a, b Point
	}{
		{"both missing", Point{}, Point{}},
		{"a missing longitude", Point{Latitude: &lat}, Point{Latitude: &lat, Longitude: &lat}},
		{"b missing", Point{Latitude: &lat, Longitude: &lat}, Point{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceKM(tc.a, tc.b)
			if got != FallbackDistanceKM {
				t.Errorf("DistanceKM() = %v, want fallback %v", got, FallbackDistanceKM)
			}
		})
	}
}

func TestDistanceKM_KnownPoints(t *testing.T) {
	// Delhi to Mumbai, roughly 1150km great-circle.
	delhiLat, delhiLon := 28.7041, 77.1025
	mumbaiLat, mumbaiLon := 19.0760, 72.8777

	a := Point{Latitude: &delhiLat, Longitude: &delhiLon}
	b := Point{Latitude: &mumbaiLat, Longitude: &mumbaiLon}

	got := DistanceKM(a, b)
	want := 1150.0
	if math.Abs(got-want) > 50 {
		t.Errorf("DistanceKM(Delhi, Mumbai) = %v, want ~%v", got, want)
	}
}

func TestDistanceKM_SamePoint(t *testing.T) {
	lat, lon := 10.0, 20.0
	p := Point{Latitude: &lat, Longitude: &lon}
	if got := DistanceKM(p, p); got != 0 {
		t.Errorf("DistanceKM(p, p) = %v, want 0", got)
	}
}
