package grid

import (
	"fmt"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"

	"github.com/phil-mansfield/bathyprof/geo"
	"github.com/phil-mansfield/bathyprof/math/interpolate"
)

// Interpolator bi-linearly interpolates a raster defined on a grid.
// Longitudes may be given in either convention and are mapped onto the
// monotonic form of the grid's longitude axis before evaluation. Rasters
// which cover the whole globe are closed with a copy of their first column,
// so every longitude can be evaluated.
type Interpolator struct {
	xs, ys []float64
	r      int
	bi     *interpolate.BiLinear
}

// NewInterpolator creates an interpolator for the raster z, whose rows
// follow the latitude axis y and whose columns follow the longitude axis x.
// x must increase eastward (crossing the antimeridian at most once), y must
// decrease southward, and both must have at least two elements.
func NewInterpolator(x, y []float64, z *mat64.Dense, r int) (*Interpolator, error) {
	rows, cols := z.Dims()
	if rows != len(y) || cols != len(x) {
		return nil, fmt.Errorf(
			"%w: Z is %d x %d, but len(y) = %d and len(x) = %d",
			ErrInvalidShape, rows, cols, len(y), len(x),
		)
	} else if len(x) < 2 || len(y) < 2 {
		return nil, fmt.Errorf(
			"%w: len(x) = %d and len(y) = %d, but both must be at least 2",
			ErrInvalidShape, len(x), len(y),
		)
	}

	xs := geo.MakeMonotonic(x)
	vals := rowMajor(z)

	dx := (xs[cols-1] - xs[0]) / float64(cols-1)
	if isFullGlobe(xs, dx, r) {
		xs = append(xs, xs[0]+360)
		closed := make([]float64, 0, rows*(cols+1))
		for i := 0; i < rows; i++ {
			row := vals[i*cols : (i+1)*cols]
			closed = append(closed, row...)
			closed = append(closed, row[0])
		}
		vals = closed
	}

	ys := make([]float64, len(y))
	copy(ys, y)

	in := &Interpolator{xs: xs, ys: ys, r: r}
	dx, xUnif := uniformStep(xs, r)
	dy, yUnif := uniformStep(ys, r)
	if xUnif && yUnif {
		// The last grid line must match the limit of the uniform search.
		xs[len(xs)-1] = float64(len(xs)-1)*dx + xs[0]
		ys[len(ys)-1] = float64(len(ys)-1)*dy + ys[0]
		in.bi = interpolate.NewUniformBiLinear(
			xs[0], dx, len(xs), ys[0], dy, len(ys), vals,
		)
	} else {
		in.bi = interpolate.NewBiLinear(xs, ys, vals)
	}
	return in, nil
}

// uniformStep returns the mean step of a monotonic axis and whether every
// step agrees with it after rounding to r decimal digits.
func uniformStep(axis []float64, r int) (step float64, ok bool) {
	n := len(axis)
	step = (axis[n-1] - axis[0]) / float64(n-1)
	for i := 1; i < n; i++ {
		if floats.Round(axis[i]-axis[i-1]-step, r) != 0 {
			return step, false
		}
	}
	return step, true
}

// isFullGlobe returns true if one more step past the last longitude
// returns to the first one.
func isFullGlobe(xs []float64, dx float64, r int) bool {
	span := xs[len(xs)-1] - xs[0] + dx
	return floats.Round(span, r) >= 360
}

// Monotonic maps a longitude onto the monotonic frame of the interpolator's
// longitude axis. Longitudes which lie within rounding error of an edge of
// the axis are snapped onto it.
func (in *Interpolator) Monotonic(lon float64) float64 {
	x0, x1 := in.xs[0], in.xs[len(in.xs)-1]
	d := geo.Canonicalize(lon-x0, geo.Positive)
	if floats.Round(d-360, in.r) == 0 {
		d = 0
	}
	x := x0 + d
	if x > x1 && floats.Round(x-x1, in.r) == 0 {
		x = x1
	}
	return x
}

func (in *Interpolator) snapLat(lat float64) float64 {
	y0, y1 := in.ys[0], in.ys[len(in.ys)-1]
	switch {
	case lat > y0 && floats.Round(lat-y0, in.r) == 0:
		return y0
	case lat < y1 && floats.Round(y1-lat, in.r) == 0:
		return y1
	}
	return lat
}

// Contains returns true if the point can be evaluated.
func (in *Interpolator) Contains(lon, lat float64) bool {
	return in.bi.Contains(in.Monotonic(lon), in.snapLat(lat))
}

// Eval interpolates the raster at a point.
//
// Panics if the point is not contained in the raster.
func (in *Interpolator) Eval(lon, lat float64) float64 {
	return in.bi.Eval(in.Monotonic(lon), in.snapLat(lat))
}

// EvalAll interpolates the raster at every point. If an output array is
// given, the output is written to it.
func (in *Interpolator) EvalAll(lons, lats []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(lons))}
	}
	for i := range lons {
		out[0][i] = in.Eval(lons[i], lats[i])
	}
	return out[0]
}

var _ interpolate.BiInterpolator = &Interpolator{}
