/*package grid classifies longitude-latitude coordinate meshes and resamples
the rasters defined on top of them.

Coordinates are stored as *mat64.Dense meshes in which each row follows a
line of constant latitude and each column a line of constant longitude. A
grid has longitudes which increase eastward along each row, latitudes which
decrease southward along each column, and the same constant step along both
axes. Longitudes are circular, so a grid may cross the antimeridian.
*/
package grid

import (
	"errors"
	"fmt"

	"github.com/gonum/matrix/mat64"
)

var (
	// ErrInvalidShape is returned when paired arrays have different shapes.
	ErrInvalidShape = errors.New("grid: invalid input shape")
	// ErrNotAGrid is returned when coordinates do not form a grid.
	ErrNotAGrid = errors.New("grid: coordinates do not form a grid")
)

// Direction is the kind of axis being examined.
type Direction int

const (
	// Horizontal axes hold circular longitudes.
	Horizontal Direction = iota
	// Vertical axes hold latitudes.
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Diagnostic records which of the grid invariants a pair of meshes satisfy.
type Diagnostic struct {
	Mesh, Monotonic, ConstantStep bool
}

func (d Diagnostic) String() string {
	return fmt.Sprintf(
		"mesh = %v, monotonic = %v, constant step = %v",
		d.Mesh, d.Monotonic, d.ConstantStep,
	)
}

// Meshgrid expands a pair of axes into coordinate meshes with len(ys) rows
// and len(xs) columns.
func Meshgrid(xs, ys []float64) (x, y *mat64.Dense) {
	rows, cols := len(ys), len(xs)
	xData, yData := make([]float64, rows*cols), make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		copy(xData[i*cols:(i+1)*cols], xs)
		for j := 0; j < cols; j++ {
			yData[i*cols+j] = ys[i]
		}
	}
	return mat64.NewDense(rows, cols, xData), mat64.NewDense(rows, cols, yData)
}

// Axis returns the first row (Horizontal) or first column (Vertical) of a
// coordinate mesh.
func Axis(m *mat64.Dense, dir Direction) []float64 {
	rows, cols := m.Dims()
	switch dir {
	case Horizontal:
		out := make([]float64, cols)
		copy(out, m.RawRowView(0))
		return out
	case Vertical:
		out := make([]float64, rows)
		for i := range out {
			out[i] = m.At(i, 0)
		}
		return out
	}
	panic(fmt.Sprintf("Unknown direction %d.", int(dir)))
}

func checkShapes(x, y, z *mat64.Dense) error {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	zr, zc := z.Dims()
	if xr != yr || xr != zr || xc != yc || xc != zc {
		return fmt.Errorf(
			"%w: X is %d x %d, Y is %d x %d, and Z is %d x %d",
			ErrInvalidShape, xr, xc, yr, yc, zr, zc,
		)
	}
	return nil
}

// rowMajor returns the elements of m in row-major order. The returned slice
// aliases m when m is not a view.
func rowMajor(m *mat64.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}
	out := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}
