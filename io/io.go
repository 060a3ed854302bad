/*The io package contains code for reading bathymetry rasters from disk. It
provides an abstract interface (Provider) that allows the main package to read
rasters from different file formats in the same way.

Chances are that if you're reading this, you want to add a new raster format to
this project. It's not too painful to do that in most cases. I'll lay out
exactly what this is going to look like. For the sake of the discussion I'm
going pretend that you're adding a file-type called "my_file" to bathyprof.

1. Make a file in this directory called my_file.go.

2. Write a function "NewMyFile(fname string, ...) (*Memory, error)" that reads
the whole raster and hands its axes and values to NewMemory(). Longitudes must
increase eastward and latitudes must decrease southward, so flip the rows if
your format stores them south-first. Values which the format marks as missing
should be NaN.

3. If your format is too big to hold in memory, write a struct "MyFile" with a
Fetch() method matching the Provider interface instead. Crop() does the
bookkeeping for you once you know your axes.

4. Update getProvider() in cmd/utils.go. It'll just be adding a case to a switch
statement.

5. Update the config file so that it knows about your file type. This means
going to cmd/cmd.go and doing two things: First, change the validate() method
there so that it doesn't crash when you pass it the name of your file type.
Second, go into the example config file (the big string in the same file) and
in the RasterType comment, explain that your file type is also supported now.
*/
package io

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"

	"github.com/phil-mansfield/bathyprof/geo"
	"github.com/phil-mansfield/bathyprof/grid"
)

// ErrNoCoverage is returned when a raster does not overlap a requested
// extent.
var ErrNoCoverage = errors.New("io: raster does not cover the requested extent")

// Provider supplies gridded rasters.
type Provider interface {
	// Fetch returns the smallest part of the raster which covers bounds. x
	// increases eastward, y decreases southward, and z has len(y) rows and
	// len(x) columns. The longitudes of x are in the same convention as
	// the underlying file.
	Fetch(bounds geo.Extent) (x, y []float64, z *mat64.Dense, err error)
}

// Crop returns the indices of the columns and rows of a grid with axes x and
// y which are needed to cover bounds, including one extra column or row on
// each side where the grid has one. Grids which cover the whole globe are
// periodic, so the returned columns may wrap around from the last column to
// the first. Comparisons are done after rounding to r decimal digits.
func Crop(x, y []float64, bounds geo.Extent, r int) (cols, rows []int, err error) {
	if len(x) >= 2 && len(y) >= 2 {
		rows = cropRows(y, bounds, r)
		cols = cropCols(x, bounds, r)
	}
	if len(rows) < 2 || len(cols) < 2 {
		return nil, nil, fmt.Errorf(
			"%w: wanted %s, but the raster is %d x %d", ErrNoCoverage,
			bounds, len(y), len(x),
		)
	}
	return cols, rows, nil
}

// span returns the range of indices which brackets the offsets [a, b],
// measured in steps, widened by one index on each side.
func span(a, b float64, r int) (lo, hi int) {
	lo = int(math.Floor(floats.Round(a, r))) - 1
	hi = int(math.Ceil(floats.Round(b, r))) + 1
	return lo, hi
}

func cropRows(y []float64, bounds geo.Extent, r int) []int {
	n := len(y)
	dy := (y[0] - y[n-1]) / float64(n-1)
	lo, hi := span((y[0]-bounds.North)/dy, (y[0]-bounds.South)/dy, r)
	if hi < 0 || lo > n-1 {
		return nil
	}
	lo, hi = max(lo, 0), min(hi, n-1)

	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func cropCols(x []float64, bounds geo.Extent, r int) []int {
	n := len(x)
	xm := geo.MakeMonotonic(x)
	dx := (xm[n-1] - xm[0]) / float64(n-1)

	// Offsets of the extent's edges east of the first column, in steps.
	a := geo.Canonicalize(bounds.West-xm[0], geo.Positive) / dx
	b := a + bounds.Width()/dx
	period := 360 / dx

	if floats.Round(float64(n), r) >= floats.Round(period, r) {
		lo, hi := span(a, b, r)
		if hi-lo+1 >= n {
			lo, hi = 0, n-1
		}
		out := make([]int, 0, hi-lo+1)
		for j := lo; j <= hi; j++ {
			out = append(out, ((j%n)+n)%n)
		}
		return out
	}

	// The extent may start west of the first column, in which case its
	// offsets wrap around.
	for _, shift := range []float64{0, -period} {
		lo, hi := span(a+shift, b+shift, r)
		if hi < 0 || lo > n-1 {
			continue
		}
		lo, hi = max(lo, 0), min(hi, n-1)
		out := make([]int, 0, hi-lo+1)
		for j := lo; j <= hi; j++ {
			out = append(out, j)
		}
		return out
	}
	return nil
}

// subset copies the given rows and columns out of a raster.
func subset(
	x, y []float64, z *mat64.Dense, cols, rows []int,
) (xs, ys []float64, zs *mat64.Dense) {
	xs, ys = make([]float64, len(cols)), make([]float64, len(rows))
	for k, j := range cols {
		xs[k] = x[j]
	}
	for k, i := range rows {
		ys[k] = y[i]
	}
	zs = mat64.NewDense(len(rows), len(cols), nil)
	for a, i := range rows {
		row := z.RawRowView(i)
		for b, j := range cols {
			zs.Set(a, b, row[j])
		}
	}
	return xs, ys, zs
}

// Memory is a Provider which holds an entire raster in memory.
type Memory struct {
	x, y      []float64
	z         *mat64.Dense
	precision int
}

// NewMemory creates a Provider for the raster z, whose rows follow the
// latitude axis y and whose columns follow the longitude axis x. The axes
// must form a grid.
func NewMemory(x, y []float64, z *mat64.Dense, precision int) (*Memory, error) {
	rows, cols := z.Dims()
	if rows != len(y) || cols != len(x) {
		return nil, fmt.Errorf(
			"%w: Z is %d x %d, but len(y) = %d and len(x) = %d",
			grid.ErrInvalidShape, rows, cols, len(y), len(x),
		)
	}
	if !grid.IsStrictlyMonotonic(x, grid.Horizontal) ||
		!grid.IsStrictlyMonotonic(y, grid.Vertical) ||
		!grid.HasConstantJointStep(x, y, precision) {
		return nil, fmt.Errorf(
			"%w: longitudes must increase, latitudes must decrease, and "+
				"both must share a constant step", grid.ErrNotAGrid,
		)
	}
	return &Memory{x: x, y: y, z: z, precision: precision}, nil
}

// Fetch returns the part of the raster covering bounds. The whole raster is
// returned if bounds is the zero Extent.
func (m *Memory) Fetch(bounds geo.Extent) (x, y []float64, z *mat64.Dense, err error) {
	if bounds == (geo.Extent{}) {
		return m.x, m.y, m.z, nil
	}
	cols, rows, err := Crop(m.x, m.y, bounds, m.precision)
	if err != nil {
		return nil, nil, nil, err
	}
	x, y, z = subset(m.x, m.y, m.z, cols, rows)
	return x, y, z, nil
}

// Extent returns the extent covered by the raster.
func (m *Memory) Extent() geo.Extent {
	return geo.Extent{
		West: m.x[0], East: m.x[len(m.x)-1],
		South: m.y[len(m.y)-1], North: m.y[0],
	}
}

// flipRows reverses the row order of a row-major rows x cols array in place.
func flipRows(vals []float64, rows, cols int) {
	for i := 0; i < rows/2; i++ {
		a := vals[i*cols : (i+1)*cols]
		b := vals[(rows-1-i)*cols : (rows-i)*cols]
		for j := range a {
			a[j], b[j] = b[j], a[j]
		}
	}
}

func reverse(xs []float64) {
	for i := 0; i < len(xs)/2; i++ {
		xs[i], xs[len(xs)-1-i] = xs[len(xs)-1-i], xs[i]
	}
}

func isMissing(v, nodata float64) bool {
	return math.IsNaN(v) || v == nodata
}
