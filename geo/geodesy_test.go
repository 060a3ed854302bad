package geo

import (
	"errors"
	"math"
	"testing"
)

func TestWGS84Equator(t *testing.T) {
	// One degree of longitude along the equator.
	s12, azi1, azi2 := WGS84.Inverse(0, 0, 0, 1)
	if math.Abs(s12-111319.49) > 0.01 {
		t.Errorf("Expected 111319.49 m per equatorial degree. Got %.4f.", s12)
	}
	if math.Abs(azi1-90) > 1e-9 || math.Abs(azi2-90) > 1e-9 {
		t.Errorf("Expected due east azimuths. Got %g and %g.", azi1, azi2)
	}

	lat, lon, azi := WGS84.Direct(0, 0, 90, 1000)
	if math.Abs(lat) > 1e-12 || math.Abs(lon-1000/111319.49) > 1e-7 ||
		math.Abs(azi-90) > 1e-9 {
		t.Errorf("Direct(0, 0, 90, 1000) gave (%g, %g, %g).", lat, lon, azi)
	}
}

func TestDirectInverseRoundTrip(t *testing.T) {
	table := []struct {
		lat, lon, azi, s12 float64
	}{
		{0, 0, 45, 1e4},
		{60, 170, 80, 5e5},
		{-33.9, 18.4, 225, 2.5e5},
		{75, -10, 0, 1e5},
	}

	lat1, lon1 := make([]float64, len(table)), make([]float64, len(table))
	azi1, s12 := make([]float64, len(table)), make([]float64, len(table))
	for i, test := range table {
		lat1[i], lon1[i], azi1[i], s12[i] = test.lat, test.lon, test.azi, test.s12
	}

	lat2, lon2, _, err := DirectAll(WGS84, lat1, lon1, azi1, s12)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	dist, azi, _, err := InverseAll(WGS84, lat1, lon1, lat2, lon2)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}

	for i := range table {
		if math.Abs(dist[i]-s12[i]) > 1e-6 {
			t.Errorf("%d) Expected distance %g. Got %g.", i+1, s12[i], dist[i])
		}
		dAzi := math.Abs(Canonicalize(azi[i]-azi1[i], Signed))
		if dAzi > 1e-6 {
			t.Errorf("%d) Expected azimuth %g. Got %g.", i+1, azi1[i], azi[i])
		}
	}
}

func TestVectorizedLengthMismatch(t *testing.T) {
	a, b := []float64{0, 1}, []float64{0}
	if _, _, _, err := DirectAll(WGS84, a, a, a, b); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected DirectAll to fail with ErrLengthMismatch. Got %v.", err)
	}
	if _, _, _, err := InverseAll(WGS84, a, b, a, a); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected InverseAll to fail with ErrLengthMismatch. Got %v.", err)
	}
}
