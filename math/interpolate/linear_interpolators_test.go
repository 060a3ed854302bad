package interpolate

import (
	"math"
	"testing"
)

// plane is exactly reproduced by bi-linear interpolation.
func plane(x, y float64) float64 { return 3*x - 2*y + 7 }

func TestBiLinearPlane(t *testing.T) {
	xs := []float64{0, 0.5, 1, 1.5, 2}
	ys := []float64{1, 0.5, 0, -0.5} // north-first
	vals := make([]float64, len(xs)*len(ys))
	for iy, y := range ys {
		for ix, x := range xs {
			vals[ix+iy*len(xs)] = plane(x, y)
		}
	}

	bi := NewBiLinear(xs, ys, vals)
	ubi := NewUniformBiLinear(0, 0.5, len(xs), 1, -0.5, len(ys), vals)

	table := []struct{ x, y float64 }{
		{0, 1}, {2, -0.5}, {0.25, 0.75}, {1.9, -0.4}, {1, 0}, {0.5, -0.5},
		{2, 1}, {0, -0.5},
	}
	for i, test := range table {
		want := plane(test.x, test.y)
		if got := bi.Eval(test.x, test.y); math.Abs(got-want) > 1e-12 {
			t.Errorf("%d) Expected %g at (%g, %g). Got %g.",
				i+1, want, test.x, test.y, got)
		}
		if got := ubi.Eval(test.x, test.y); math.Abs(got-want) > 1e-12 {
			t.Errorf("%d) Expected uniform %g at (%g, %g). Got %g.",
				i+1, want, test.x, test.y, got)
		}
	}

	out := bi.EvalAll([]float64{0.1, 1.7}, []float64{0.2, -0.3})
	if math.Abs(out[0]-plane(0.1, 0.2)) > 1e-12 ||
		math.Abs(out[1]-plane(1.7, -0.3)) > 1e-12 {
		t.Errorf("EvalAll gave %v.", out)
	}
}

func TestBiLinearContains(t *testing.T) {
	bi := NewBiLinear(
		[]float64{10, 11, 12}, []float64{5, 4}, make([]float64, 6),
	)
	table := []struct {
		x, y float64
		ok   bool
	}{
		{10, 5, true}, {12, 4, true}, {11.5, 4.5, true},
		{9.99, 4.5, false}, {12.01, 4.5, false},
		{11, 5.01, false}, {11, 3.99, false},
	}
	for i, test := range table {
		if ok := bi.Contains(test.x, test.y); ok != test.ok {
			t.Errorf("%d) Expected Contains(%g, %g) = %v. Got %v.",
				i+1, test.x, test.y, test.ok, ok)
		}
	}
}

func TestBiLinearPanicsOutside(t *testing.T) {
	bi := NewBiLinear([]float64{0, 1}, []float64{1, 0}, make([]float64, 4))
	defer func() {
		if recover() == nil {
			t.Errorf("Expected a panic for an out-of-range point.")
		}
	}()
	bi.Eval(2, 0.5)
}

func BenchmarkBiLinearEval(b *testing.B) {
	n := 100
	xs, ys := make([]float64, n), make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = float64(n - i)
	}
	bi := NewBiLinear(xs, ys, make([]float64, n*n))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bi.Eval(45.3, 51.7)
	}
}
