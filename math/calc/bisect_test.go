package calc

import (
	"errors"
	"math"
	"testing"
)

func TestBisect(t *testing.T) {
	table := []struct {
		f      func(float64) float64
		lo, hi float64
		root   float64
	}{
		{func(x float64) float64 { return x - 1 }, 0, 4, 1},
		{func(x float64) float64 { return x*x - 2 }, 0, 2, math.Sqrt2},
		{func(x float64) float64 { return 1/x - 0.25 }, 0, 8, 4},
		{func(x float64) float64 { return math.Cos(x) }, 0, 3, math.Pi / 2},
	}

	for i, test := range table {
		root, iter, err := Bisect(test.f, test.lo, test.hi)
		if err != nil {
			t.Errorf("%d) Got unexpected error %v.", i+1, err)
			continue
		}
		if iter > 100 {
			t.Errorf("%d) Expected at most 100 iterations. Got %d.", i+1, iter)
		}
		if math.Abs(root-test.root) > 1e-3 {
			t.Errorf("%d) Expected root %g. Got %g.", i+1, test.root, root)
		}
	}
}

func TestBisectOptions(t *testing.T) {
	f := func(x float64) float64 { return x - 1.23456789 }

	root, _, err := Bisect(f, 0, 10, Tol(1e-9))
	if err != nil {
		t.Fatalf("Got unexpected error %v.", err)
	}
	if math.Abs(root-1.23456789) > 1e-8 {
		t.Errorf("Expected tight root 1.23456789. Got %.10f.", root)
	}

	_, iter, err := Bisect(f, 0, 10, Tol(1e-12), MaxIter(5))
	if err != nil {
		t.Fatalf("Got unexpected error %v.", err)
	}
	if iter != 5 {
		t.Errorf("Expected iteration cap of 5. Got %d.", iter)
	}
}

func TestBisectEndpoints(t *testing.T) {
	f := func(x float64) float64 { return x }
	if root, _, err := Bisect(f, 0, 5); err != nil || root != 0 {
		t.Errorf("Expected exact root at the lower end point. Got %g, %v.",
			root, err)
	}
	if root, _, err := Bisect(f, -5, 0); err != nil || root != 0 {
		t.Errorf("Expected exact root at the upper end point. Got %g, %v.",
			root, err)
	}
}

func TestBisectBadBracket(t *testing.T) {
	table := []struct {
		f      func(float64) float64
		lo, hi float64
	}{
		{func(x float64) float64 { return x*x + 1 }, -1, 1},
		{func(x float64) float64 { return math.NaN() }, 0, 1},
		{func(x float64) float64 { return -x - 1 }, 0, 1},
	}
	for i, test := range table {
		_, _, err := Bisect(test.f, test.lo, test.hi)
		if !errors.Is(err, ErrBracket) {
			t.Errorf("%d) Expected ErrBracket. Got %v.", i+1, err)
		}
	}
}

func TestBisectInfiniteEndpoint(t *testing.T) {
	f := func(x float64) float64 { return 1/x - 2 }
	root, _, err := Bisect(f, 0, 10)
	if err != nil {
		t.Fatalf("Got unexpected error %v.", err)
	}
	if math.Abs(root-0.5) > 1e-3 {
		t.Errorf("Expected root 0.5. Got %g.", root)
	}
}

func BenchmarkBisect(b *testing.B) {
	f := func(x float64) float64 { return x*x - 2 }
	for i := 0; i < b.N; i++ {
		Bisect(f, 0, 2)
	}
}
