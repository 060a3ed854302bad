package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"

	"github.com/phil-mansfield/bathyprof/geo"
)

// IsReplicatedMesh returns true if every row (Horizontal) or every column
// (Vertical) of m is identical to the first one.
func IsReplicatedMesh(m *mat64.Dense, dir Direction) bool {
	rows, cols := m.Dims()
	switch dir {
	case Horizontal:
		first := m.RawRowView(0)
		for i := 1; i < rows; i++ {
			if !floats.Equal(first, m.RawRowView(i)) {
				return false
			}
		}
	case Vertical:
		for i := 0; i < rows; i++ {
			row := m.RawRowView(i)
			for j := 1; j < cols; j++ {
				if row[j] != row[0] {
					return false
				}
			}
		}
	}
	return true
}

// IsStrictlyMonotonic returns true if a horizontal axis increases eastward
// or a vertical axis decreases southward. Horizontal axes are allowed to
// cross the antimeridian once.
func IsStrictlyMonotonic(axis []float64, dir Direction) bool {
	switch dir {
	case Horizontal:
		axis = geo.MakeMonotonic(geo.CanonicalizeAll(axis, geo.Positive))
		for i := 1; i < len(axis); i++ {
			if !(axis[i]-axis[i-1] > 0) {
				return false
			}
		}
	case Vertical:
		for i := 1; i < len(axis); i++ {
			if !(axis[i]-axis[i-1] < 0) {
				return false
			}
		}
	}
	return true
}

// ResolutionStep returns the smallest and largest spacing between sorted
// neighbouring values of an axis after rounding to r decimal digits. The
// axis has a constant step if lo == hi. Horizontal axes are sorted eastward
// starting from their west limit. Axes with fewer than two values have no
// step and NaN is returned for both limits.
func ResolutionStep(axis []float64, dir Direction, r int) (lo, hi float64) {
	if len(axis) < 2 {
		return math.NaN(), math.NaN()
	}

	var sorted []float64
	if dir == Horizontal {
		west, _, _ := geo.Boundaries(axis, r)
		sorted = geo.ShiftAbove(axis, west, r)
	} else {
		sorted = make([]float64, len(axis))
		copy(sorted, axis)
	}
	sort.Float64s(sorted)

	diffs := make([]float64, len(sorted)-1)
	for i := range diffs {
		diffs[i] = floats.Round(math.Abs(sorted[i+1]-sorted[i]), r)
	}
	return floats.Min(diffs), floats.Max(diffs)
}

// HasConstantStep returns true if an axis has a single resolution step after
// rounding to r decimal digits.
func HasConstantStep(axis []float64, dir Direction, r int) bool {
	lo, hi := ResolutionStep(axis, dir, r)
	return lo == hi
}

// HasConstantJointStep returns true if a horizontal and a vertical axis both
// have constant steps and those steps are equal after rounding to r decimal
// digits.
func HasConstantJointStep(x, y []float64, r int) bool {
	xlo, xhi := ResolutionStep(x, Horizontal, r)
	ylo, yhi := ResolutionStep(y, Vertical, r)
	return xlo == xhi && ylo == yhi && xlo == ylo
}

// IsGrid returns true if the coordinate meshes x and y form a grid: x is
// replicated along its rows and y along its columns, both axes are strictly
// monotonic, and both share the same constant step. The Diagnostic reports
// each of these tests separately. Meshes of different shapes are not grids.
func IsGrid(x, y *mat64.Dense, r int) (bool, Diagnostic) {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xr != yr || xc != yc {
		return false, Diagnostic{}
	}

	d := Diagnostic{
		Mesh: IsReplicatedMesh(x, Horizontal) && IsReplicatedMesh(y, Vertical),
	}
	xAxis, yAxis := Axis(x, Horizontal), Axis(y, Vertical)
	d.Monotonic = IsStrictlyMonotonic(xAxis, Horizontal) &&
		IsStrictlyMonotonic(yAxis, Vertical)
	d.ConstantStep = HasConstantJointStep(xAxis, yAxis, r)

	return d.Mesh && d.Monotonic && d.ConstantStep, d
}

// Shape is the shape of a grid recovered from flattened coordinates.
type Shape struct {
	Rows, Cols int
	// ColumnMajor is true if the flattened arrays list columns one after
	// another rather than rows.
	ColumnMajor bool
}

// IsVectorizedGrid returns true if the flattened coordinates x and y can be
// reshaped into meshes which form a grid, along with the shape which does
// so. Both row-major and column-major flattening are detected.
func IsVectorizedGrid(x, y []float64, r int) (Shape, bool) {
	if len(x) != len(y) || len(x) < 4 {
		return Shape{}, false
	}
	n := len(x)

	if cols := period(x, r); cols > 1 && n%cols == 0 {
		s := Shape{Rows: n / cols, Cols: cols}
		if ok, _ := IsGrid(Reshape(x, s), Reshape(y, s), r); ok {
			return s, true
		}
	}

	if rows := period(y, r); rows > 1 && n%rows == 0 {
		s := Shape{Rows: rows, Cols: n / rows, ColumnMajor: true}
		if ok, _ := IsGrid(Reshape(x, s), Reshape(y, s), r); ok {
			return s, true
		}
	}

	return Shape{}, false
}

// period returns the index of the first value equal to the first one after
// rounding to r decimal digits, or -1 if the first value never repeats.
func period(v []float64, r int) int {
	v0 := floats.Round(v[0], r)
	for j := 1; j < len(v); j++ {
		if floats.Round(v[j], r) == v0 {
			return j
		}
	}
	return -1
}

// Reshape converts a flattened array into a mesh with the given shape.
//
// Panics if len(v) != s.Rows * s.Cols.
func Reshape(v []float64, s Shape) *mat64.Dense {
	if len(v) != s.Rows*s.Cols {
		panic(fmt.Sprintf(
			"len(v) = %d, but shape is %d x %d", len(v), s.Rows, s.Cols,
		))
	}
	data := make([]float64, len(v))
	if !s.ColumnMajor {
		copy(data, v)
	} else {
		for i := 0; i < s.Rows; i++ {
			for j := 0; j < s.Cols; j++ {
				data[i*s.Cols+j] = v[j*s.Rows+i]
			}
		}
	}
	return mat64.NewDense(s.Rows, s.Cols, data)
}
