package geo

import (
	"errors"
	"fmt"

	"github.com/tidwall/geodesic"
)

// ErrLengthMismatch is returned when paired coordinate arrays have different
// lengths.
var ErrLengthMismatch = errors.New("geo: length mismatch")

// Point is a geodetic position in degrees.
type Point struct {
	Lon, Lat float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lon, p.Lat)
}

// Geodesy solves the direct and inverse geodesic problems. Distances are in
// metres and angles in degrees, with azimuths measured clockwise from north.
type Geodesy interface {
	// Direct returns the point reached by travelling s12 metres from
	// (lat1, lon1) along azimuth azi1, along with the azimuth at that point.
	Direct(lat1, lon1, azi1, s12 float64) (lat2, lon2, azi2 float64)
	// Inverse returns the distance between two points and the azimuths of the
	// geodesic at each of them.
	Inverse(lat1, lon1, lat2, lon2 float64) (s12, azi1, azi2 float64)
}

type ellipsoid struct {
	e *geodesic.Ellipsoid
}

func (g ellipsoid) Direct(lat1, lon1, azi1, s12 float64) (lat2, lon2, azi2 float64) {
	g.e.Direct(lat1, lon1, azi1, s12, &lat2, &lon2, &azi2)
	return lat2, lon2, azi2
}

func (g ellipsoid) Inverse(lat1, lon1, lat2, lon2 float64) (s12, azi1, azi2 float64) {
	g.e.Inverse(lat1, lon1, lat2, lon2, &s12, &azi1, &azi2)
	return s12, azi1, azi2
}

// WGS84 solves geodesic problems on the WGS84 ellipsoid.
var WGS84 Geodesy = ellipsoid{geodesic.WGS84}

// DirectAll solves the direct problem for every element of the input arrays,
// which must all have the same length.
func DirectAll(
	g Geodesy, lat1, lon1, azi1, s12 []float64,
) (lat2, lon2, azi2 []float64, err error) {
	n := len(lat1)
	if len(lon1) != n || len(azi1) != n || len(s12) != n {
		return nil, nil, nil, fmt.Errorf(
			"%w: len(lat1) = %d, len(lon1) = %d, len(azi1) = %d, len(s12) = %d",
			ErrLengthMismatch, len(lat1), len(lon1), len(azi1), len(s12),
		)
	}

	lat2, lon2, azi2 = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		lat2[i], lon2[i], azi2[i] = g.Direct(lat1[i], lon1[i], azi1[i], s12[i])
	}
	return lat2, lon2, azi2, nil
}

// InverseAll solves the inverse problem for every element of the input
// arrays, which must all have the same length.
func InverseAll(
	g Geodesy, lat1, lon1, lat2, lon2 []float64,
) (s12, azi1, azi2 []float64, err error) {
	n := len(lat1)
	if len(lon1) != n || len(lat2) != n || len(lon2) != n {
		return nil, nil, nil, fmt.Errorf(
			"%w: len(lat1) = %d, len(lon1) = %d, len(lat2) = %d, len(lon2) = %d",
			ErrLengthMismatch, len(lat1), len(lon1), len(lat2), len(lon2),
		)
	}

	s12, azi1, azi2 = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		s12[i], azi1[i], azi2[i] = g.Inverse(lat1[i], lon1[i], lat2[i], lon2[i])
	}
	return s12, azi1, azi2, nil
}
