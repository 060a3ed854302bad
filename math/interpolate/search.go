package interpolate

import (
	"fmt"
)

// searcher locates the grid cell containing a value along a strictly
// monotonic axis. Axes may be increasing (longitudes) or decreasing
// (latitudes stored north-first).
type searcher struct {
	xs          []float64
	x0, dx, lim float64
	lo, hi      float64
	n           int
	unif, incr  bool
}

func (s *searcher) init(xs []float64) {
	s.xs = xs
	s.x0 = xs[0]
	s.lim = xs[len(xs)-1]
	s.dx = (s.lim - s.x0) / float64(len(xs)-1)
	s.n = len(xs)
	s.unif = false
	s.incr = s.dx > 0
	s.setRange()
}

func (s *searcher) unifInit(x0, dx float64, n int) {
	s.xs = nil
	s.x0 = x0
	s.lim = float64(n-1)*dx + x0
	s.dx = dx
	s.n = n
	s.unif = true
	s.incr = s.dx > 0
	s.setRange()
}

func (s *searcher) setRange() {
	if s.incr {
		s.lo, s.hi = s.x0, s.lim
	} else {
		s.lo, s.hi = s.lim, s.x0
	}
}

// contains returns true if x lies inside the axis range.
func (s *searcher) contains(x float64) bool {
	return x >= s.lo && x <= s.hi
}

// search returns the index i of the cell [xs[i], xs[i+1]] containing x.
func (s *searcher) search(x float64) int {
	if !s.contains(x) {
		panic(fmt.Sprintf(
			"Value %g out of range bounds [%g, %g]", x, s.lo, s.hi,
		))
	}

	if s.unif {
		idx := int((x - s.x0) / s.dx)
		if idx >= s.n-1 {
			idx = s.n - 2
		}
		return idx
	}

	// Guess under the assumption of uniform spacing.
	guess := int((x - s.xs[0]) / s.dx)
	if guess >= 0 && guess < len(s.xs)-1 &&
		(s.xs[guess] <= x == s.incr) &&
		(s.xs[guess+1] >= x == s.incr) {

		return guess
	}

	// Binary search.
	lo, hi := 0, s.n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.incr == (x >= s.xs[mid]) {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo
}

func (s *searcher) val(i int) float64 {
	if s.unif {
		return float64(i)*s.dx + s.x0
	}
	return s.xs[i]
}
