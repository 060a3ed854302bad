/*package geo contains routines for working with circular longitude
coordinates and for solving geodesic problems on the WGS84 ellipsoid.

Longitudes are circular: two longitudes which differ by a multiple of 360
degrees denote the same meridian. Every routine here accepts longitudes in
any convention and measures differences modulo 360.
*/
package geo

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/gonum/floats"
)

// ErrNoPoints is returned when the extent of an empty point set is requested.
var ErrNoPoints = errors.New("geo: no points")

// Convention is the canonical range that longitudes are reduced to.
type Convention int

const (
	// Signed longitudes lie in [-180, 180).
	Signed Convention = iota
	// Positive longitudes lie in [0, 360).
	Positive
)

func (c Convention) String() string {
	switch c {
	case Signed:
		return "signed"
	case Positive:
		return "positive"
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ConventionOf returns the convention which a longitude is written in:
// Signed for negative values and Positive otherwise.
func ConventionOf(lon float64) Convention {
	if lon < 0 {
		return Signed
	}
	return Positive
}

// Canonicalize reduces a longitude to the range of the convention c. -180
// maps to -180 and 360 maps to 0.
func Canonicalize(lon float64, c Convention) float64 {
	switch c {
	case Signed:
		out := lon - 360*math.Floor((lon+180)/360)
		if out >= 180 {
			out -= 360
		}
		return out
	case Positive:
		out := lon - 360*math.Floor(lon/360)
		if out >= 360 {
			out -= 360
		}
		return out
	}
	panic(fmt.Sprintf("Unknown longitude convention %d.", int(c)))
}

// CanonicalizeAll reduces every longitude in lons to the convention c and
// returns the result in a new slice.
func CanonicalizeAll(lons []float64, c Convention) []float64 {
	out := make([]float64, len(lons))
	for i := range lons {
		out[i] = Canonicalize(lons[i], c)
	}
	return out
}

// ShiftAbove returns a copy of lons where every longitude has been written in
// the convention of ref and then raised by 360 degrees if it would otherwise
// lie west of ref. Comparisons are done after rounding to r decimal digits so
// that values which are equal up to floating point noise are not shifted.
//
// The result can be sorted in ascending order starting from a known west
// limit.
func ShiftAbove(lons []float64, ref float64, r int) []float64 {
	c := ConventionOf(ref)
	rref := floats.Round(Canonicalize(ref, c), r)

	out := make([]float64, len(lons))
	for i := range lons {
		lon := Canonicalize(lons[i], c)
		if floats.Round(lon, r) < rref {
			lon += 360
		}
		out[i] = lon
	}
	return out
}

// MakeMonotonic returns a copy of axis in which every value after the first
// decrease has been raised by 360 degrees. An axis which crosses the
// antimeridian once (e.g. 170, 175, -180, -175) becomes strictly increasing
// (170, 175, 180, 185). Values before the jump keep their magnitudes and an
// axis without a decrease is returned unchanged.
func MakeMonotonic(axis []float64) []float64 {
	out := make([]float64, len(axis))
	copy(out, axis)
	for i := 1; i < len(out); i++ {
		if out[i]-out[i-1] < 0 {
			for j := i; j < len(out); j++ {
				out[j] += 360
			}
			break
		}
	}
	return out
}

// gap returns the eastward distance from lon1 to lon2 in [0, 360).
func gap(lon1, lon2 float64) float64 {
	return Canonicalize(lon2-lon1, Positive)
}

// Boundaries returns the west and east limits of a cluster of longitudes.
// Points are sorted and the largest eastward gap between neighbouring points
// (including the gap from the last point back around to the first) is taken
// to be the outside of the cluster. Gaps are compared after rounding to r
// decimal digits. If the wrap-around gap is at least as large as every other
// gap, the limits are simply the smallest and largest values.
//
// The limits are returned in the caller's own convention, so a cluster
// spanning the antimeridian, e.g. {170, 175, -175, -170}, has west = 170 and
// east = -170.
//
// This heuristic assumes the points span less than 360 degrees. Data which
// covers the whole globe has no outside and the returned limits will be
// those flanking the widest sampling gap.
func Boundaries(lons []float64, r int) (west, east float64, err error) {
	if len(lons) == 0 {
		return math.NaN(), math.NaN(), ErrNoPoints
	}

	sorted := make([]float64, len(lons))
	copy(sorted, lons)
	sort.Float64s(sorted)
	n := len(sorted)

	wrap := floats.Round(gap(sorted[n-1], sorted[0]), r)
	maxGap, maxIdx := wrap, -1
	for i := 0; i < n-1; i++ {
		g := floats.Round(gap(sorted[i], sorted[i+1]), r)
		if g > maxGap {
			maxGap, maxIdx = g, i
		}
	}

	if maxIdx == -1 {
		return sorted[0], sorted[n-1], nil
	}
	return sorted[maxIdx+1], sorted[maxIdx], nil
}

// VerticalLimits returns the south and north limits of a set of latitudes.
func VerticalLimits(lats []float64) (south, north float64, err error) {
	if len(lats) == 0 {
		return math.NaN(), math.NaN(), ErrNoPoints
	}
	return floats.Min(lats), floats.Max(lats), nil
}

// Extent is a longitude-latitude bounding box. West may be numerically
// larger than East when the box crosses the antimeridian.
type Extent struct {
	West, East, South, North float64
}

func (e Extent) String() string {
	return fmt.Sprintf(
		"[%.6f, %.6f] x [%.6f, %.6f]", e.West, e.East, e.South, e.North,
	)
}

// Width returns the eastward span of the extent in degrees.
func (e Extent) Width() float64 {
	return gap(e.West, e.East)
}

// Contains returns true if the point lies inside the extent. Longitudes are
// compared modulo 360 and all comparisons are done after rounding to r
// decimal digits.
func (e Extent) Contains(lon, lat float64, r int) bool {
	if floats.Round(lat, r) < floats.Round(e.South, r) ||
		floats.Round(lat, r) > floats.Round(e.North, r) {
		return false
	}
	return floats.Round(gap(e.West, lon), r) <= floats.Round(e.Width(), r) ||
		floats.Round(gap(lon, e.West), r) == 0
}

// Grow returns a copy of the extent widened by margin degrees on every side.
// Latitudes are clamped to the poles.
func (e Extent) Grow(margin float64) Extent {
	return Extent{
		West:  e.West - margin,
		East:  e.East + margin,
		South: math.Max(e.South-margin, -90),
		North: math.Min(e.North+margin, 90),
	}
}

// Bounds returns the joint extent of a set of points. lons and lats must have
// the same length.
func Bounds(lons, lats []float64, r int) (Extent, error) {
	if len(lons) != len(lats) {
		return Extent{}, fmt.Errorf(
			"%w: len(lons) = %d, but len(lats) = %d",
			ErrLengthMismatch, len(lons), len(lats),
		)
	}
	west, east, err := Boundaries(lons, r)
	if err != nil {
		return Extent{}, err
	}
	south, north, err := VerticalLimits(lats)
	if err != nil {
		return Extent{}, err
	}
	return Extent{West: west, East: east, South: south, North: north}, nil
}
