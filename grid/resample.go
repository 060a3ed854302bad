package grid

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"

	"github.com/phil-mansfield/bathyprof/geo"
	"github.com/phil-mansfield/bathyprof/mask"
	"github.com/phil-mansfield/bathyprof/math/interpolate"
)

// ResampleConfig controls Resample.
type ResampleConfig struct {
	// Factor is the ratio of the new sampling frequency to the old one.
	// Factors below one coarsen the grid and factors above one refine it.
	Factor float64
	// Precision is the number of decimal digits used when comparing
	// coordinates.
	Precision   int
	Attenuation mask.Attenuation
	Family      mask.Family
}

// DefaultResampleConfig returns a configuration which leaves grids
// unchanged.
func DefaultResampleConfig() ResampleConfig {
	return ResampleConfig{
		Factor:      1,
		Precision:   12,
		Attenuation: mask.Minus6dB,
		Family:      mask.Rect,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c ResampleConfig) Validate() error {
	if !(c.Factor > 0) || math.IsInf(c.Factor, 0) {
		return fmt.Errorf("grid: resampling factor must be positive and finite, got %g", c.Factor)
	}
	if c.Precision < 0 {
		return fmt.Errorf("grid: precision must be non-negative, got %d", c.Precision)
	}
	return mask.Check(c.Family, c.Attenuation)
}

// Lattice is a raster along with its coordinate meshes.
type Lattice struct {
	X, Y, Z *mat64.Dense
}

// Axes returns the longitude and latitude axes of the lattice.
func (l *Lattice) Axes() (x, y []float64) {
	return Axis(l.X, Horizontal), Axis(l.Y, Vertical)
}

// Resample interpolates the raster z onto a grid whose sampling frequency is
// cfg.Factor times that of the grid (x, y). When the grid is coarsened, z is
// first low-pass filtered with a mask designed for the new sampling
// frequency. The new grid starts at the north-west corner of the old one and
// keeps its longitude convention.
//
// A factor of one returns the inputs unchanged.
func Resample(x, y, z *mat64.Dense, cfg ResampleConfig) (*Lattice, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Factor == 1 {
		return &Lattice{X: x, Y: y, Z: z}, nil
	}
	if err := checkShapes(x, y, z); err != nil {
		return nil, err
	}
	r := cfg.Precision
	if ok, d := IsGrid(x, y, r); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAGrid, d)
	}

	xAxis, yAxis := Axis(x, Horizontal), Axis(y, Vertical)
	rows, cols := len(yAxis), len(xAxis)

	xlo, _ := ResolutionStep(xAxis, Horizontal, r)
	ylo, _ := ResolutionStep(yAxis, Vertical, r)
	gres0 := (xlo + ylo) / 2
	fs0 := 1 / gres0
	fs := cfg.Factor * fs0

	vals := rowMajor(z)
	xm := geo.MakeMonotonic(xAxis)
	if fs < fs0 {
		m, err := mask.Build(fs0, []float64{fs}, cfg.Attenuation, cfg.Family)
		if err != nil {
			return nil, err
		}
		if !m.IsIdentity() {
			bx := interpolate.Extension
			if isFullGlobe(xm, gres0, r) {
				bx = interpolate.Periodic
			}
			vals = interpolate.Convolve2D(
				vals, rows, cols, m.Raw(), m.Rows, m.Cols,
				bx, interpolate.Extension,
			)
		}
	}

	in, err := NewInterpolator(xAxis, yAxis, mat64.NewDense(rows, cols, vals), r)
	if err != nil {
		return nil, err
	}

	gres := gres0 / cfg.Factor
	newX := lattice(xm[0], xm[cols-1], gres, count(cols, cfg.Factor, r))
	newY := lattice(yAxis[0], yAxis[rows-1], -gres, count(rows, cfg.Factor, r))

	out := make([]float64, len(newX)*len(newY))
	for i, lat := range newY {
		for j, lon := range newX {
			out[i*len(newX)+j] = in.Eval(lon, lat)
		}
	}

	conv := geo.Positive
	if floats.Min(xAxis) < 0 {
		conv = geo.Signed
	}
	X, Y := Meshgrid(geo.CanonicalizeAll(newX, conv), newY)
	return &Lattice{X: X, Y: Y, Z: mat64.NewDense(len(newY), len(newX), out)}, nil
}

// count returns the number of samples along an axis of n samples after
// resampling by factor.
func count(n int, factor float64, r int) int {
	return int(math.Floor(floats.Round(float64(n-1)*factor, r))) + 1
}

// lattice returns n values starting at start and separated by step. Values
// never pass end, the last point on the original axis.
func lattice(start, end, step float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	stop := start + step*float64(n-1)
	if (step > 0 && stop > end) || (step < 0 && stop < end) {
		stop = end
	}
	return floats.Span(make([]float64, n), start, stop)
}
