package verify

import (
	"math"
	"testing"

	"business-dedup/internal/models"
)

func TestDistanceScore(t *testing.T) {
	cases := []struct {
		meters float64
		want   float64
	}{
		{0, 1.0},
		{50, 1.0},
		{275, 0.5},
		{500, 0},
		{5000, 0},
	}
	for _, tc := range cases {
		got := distanceScore(tc.meters)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("distanceScore(%v) = %v, want %v", tc.meters, got, tc.want)
		}
	}
}

func TestHaversineMeters(t *testing.T) {
	// CN Tower to Union Station, Toronto: roughly 500m.
	d := haversineMeters(43.6426, -79.3871, 43.6453, -79.3806)
	if d < 400 || d > 700 {
		t.Errorf("distance = %v m, expected roughly 500", d)
	}

	if z := haversineMeters(43.65, -79.38, 43.65, -79.38); z != 0 {
		t.Errorf("identical points: %v", z)
	}
}

func TestAddressLine(t *testing.T) {
	addr := &models.Address{
		Street:     "123 Main St.",
		City:       "Toronto",
		Province:   "ON",
		PostalCode: "m5v 1a1",
	}
	got := addressLine(addr)
	want := "123 main street, toronto, on, M5V1A1"
	if got != want {
		t.Errorf("addressLine = %q, want %q", got, want)
	}

	if addressLine(&models.Address{}) != "" {
		t.Error("empty address should produce empty line")
	}
}
