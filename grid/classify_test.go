package grid

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

// axis returns n values starting at x0 and separated by dx.
func axis(x0, dx float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = x0 + dx*float64(i)
	}
	return out
}

func TestIsGridMeshgrid(t *testing.T) {
	x, y := Meshgrid(axis(0, 0.5, 21), axis(10, -0.5, 21))
	ok, d := IsGrid(x, y, 12)
	if !ok {
		t.Fatalf("Expected meshgrid(0:0.5:10, 10:-0.5:0) to be a grid. "+
			"Got %s.", d)
	}

	x.Set(7, 3, x.At(7, 3)+0.1)
	ok, d = IsGrid(x, y, 12)
	if ok || d.Mesh {
		t.Errorf("Expected a perturbed X to break the grid. Got %v, %s.", ok, d)
	}
	if !d.Monotonic || !d.ConstantStep {
		t.Errorf("Expected only the mesh test to fail. Got %s.", d)
	}
}

func TestIsGridFailures(t *testing.T) {
	table := []struct {
		xs, ys []float64
		d      Diagnostic
	}{
		// Unequal steps.
		{axis(0, 0.5, 5), axis(10, -1, 5), Diagnostic{true, true, false}},
		// Increasing latitudes.
		{axis(0, 1, 5), axis(0, 1, 5), Diagnostic{true, false, true}},
		// Decreasing longitudes.
		{axis(10, -1, 5), axis(10, -1, 5), Diagnostic{true, false, true}},
		// Irregular longitudes.
		{[]float64{0, 1, 2, 4}, axis(3, -1, 4), Diagnostic{true, true, false}},
		// A single row.
		{axis(0, 1, 5), []float64{0}, Diagnostic{true, true, false}},
	}

	for i, test := range table {
		x, y := Meshgrid(test.xs, test.ys)
		ok, d := IsGrid(x, y, 12)
		if ok || d != test.d {
			t.Errorf("%d) Expected IsGrid = false, %s. Got %v, %s.",
				i+1, test.d, ok, d)
		}
	}
}

func TestIsGridAntimeridian(t *testing.T) {
	xs := []float64{170, 175, -180, -175, -170}
	x, y := Meshgrid(xs, axis(10, -5, 4))
	if ok, d := IsGrid(x, y, 12); !ok {
		t.Errorf("Expected a grid crossing the antimeridian. Got %s.", d)
	}

	xs = []float64{350, 355, 0, 5}
	x, y = Meshgrid(xs, axis(10, -5, 4))
	if ok, d := IsGrid(x, y, 12); !ok {
		t.Errorf("Expected a grid crossing the prime meridian. Got %s.", d)
	}
}

func TestIsGridFloatingNoise(t *testing.T) {
	// Steps accumulated in floating point are not exactly equal.
	xs, ys := axis(-1, 0.01, 201), axis(1, -0.01, 201)
	x, y := Meshgrid(xs, ys)
	if ok, d := IsGrid(x, y, 12); !ok {
		t.Errorf("Expected a 0.01 degree grid. Got %s.", d)
	}
	if ok, _ := IsGrid(x, y, 17); ok {
		t.Errorf("Expected floating point noise to be visible at 17 digits.")
	}
}

func TestResolutionStep(t *testing.T) {
	table := []struct {
		axis   []float64
		dir    Direction
		lo, hi float64
	}{
		{axis(0, 0.5, 5), Horizontal, 0.5, 0.5},
		{[]float64{170, 175, 180, -175}, Horizontal, 5, 5},
		{[]float64{170, 175, -175, -170}, Horizontal, 5, 10},
		{[]float64{0, 1, 3}, Horizontal, 1, 2},
		{axis(5, -0.25, 4), Vertical, 0.25, 0.25},
		{[]float64{5, 4, 2}, Vertical, 1, 2},
	}
	for i, test := range table {
		lo, hi := ResolutionStep(test.axis, test.dir, 12)
		if lo != test.lo || hi != test.hi {
			t.Errorf("%d) Expected ResolutionStep = (%g, %g). Got (%g, %g).",
				i+1, test.lo, test.hi, lo, hi)
		}
	}

	lo, hi := ResolutionStep([]float64{1}, Vertical, 12)
	if !math.IsNaN(lo) || !math.IsNaN(hi) {
		t.Errorf("Expected NaN steps for a single point. Got (%g, %g).", lo, hi)
	}
	if HasConstantStep([]float64{1}, Vertical, 12) {
		t.Errorf("Expected a single point to not have a constant step.")
	}
}

func TestIsStrictlyMonotonic(t *testing.T) {
	table := []struct {
		axis []float64
		dir  Direction
		ok   bool
	}{
		{[]float64{100, 160, 180, -160, -100, 20}, Horizontal, true},
		{[]float64{-10, 0, 10}, Horizontal, true},
		{[]float64{0, 10, 10}, Horizontal, false},
		{[]float64{10, 5, 0}, Horizontal, false},
		{[]float64{10, 0, -10}, Vertical, true},
		{[]float64{10, 10}, Vertical, false},
	}
	for i, test := range table {
		if ok := IsStrictlyMonotonic(test.axis, test.dir); ok != test.ok {
			t.Errorf("%d) Expected IsStrictlyMonotonic(%v, %s) = %v. Got %v.",
				i+1, test.axis, test.dir, test.ok, ok)
		}
	}
}

func TestIsVectorizedGrid(t *testing.T) {
	xs, ys := axis(20, 0.5, 6), axis(-3, -0.5, 4)
	x, y := Meshgrid(xs, ys)
	xFlat, yFlat := rowMajor(x), rowMajor(y)

	s, ok := IsVectorizedGrid(xFlat, yFlat, 12)
	if !ok || s != (Shape{Rows: 4, Cols: 6}) {
		t.Errorf("Expected a row-major 4 x 6 grid. Got %v, %+v.", ok, s)
	}
	if !floats.Equal(rowMajor(Reshape(xFlat, s)), xFlat) {
		t.Errorf("Reshape did not preserve a row-major mesh.")
	}

	// Column-major flattening.
	n := len(xFlat)
	xCol, yCol := make([]float64, n), make([]float64, n)
	for j := range xs {
		for i := range ys {
			xCol[j*len(ys)+i] = xs[j]
			yCol[j*len(ys)+i] = ys[i]
		}
	}
	s, ok = IsVectorizedGrid(xCol, yCol, 12)
	if !ok || s != (Shape{Rows: 4, Cols: 6, ColumnMajor: true}) {
		t.Errorf("Expected a column-major 4 x 6 grid. Got %v, %+v.", ok, s)
	}
	if !floats.Equal(rowMajor(Reshape(xCol, s)), xFlat) {
		t.Errorf("Reshape did not transpose a column-major mesh.")
	}

	// Scatter.
	xFlat[5] += 0.3
	if _, ok := IsVectorizedGrid(xFlat, yFlat, 12); ok {
		t.Errorf("Expected perturbed coordinates to be scatter.")
	}
	if _, ok := IsVectorizedGrid(xFlat[:3], yFlat[:3], 12); ok {
		t.Errorf("Expected three points to be scatter.")
	}
}

func BenchmarkIsGrid1000x1000(b *testing.B) {
	x, y := Meshgrid(axis(0, 0.01, 1000), axis(10, -0.01, 1000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		IsGrid(x, y, 12)
	}
}
