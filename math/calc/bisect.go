/*package calc provides some basic numerical routines: root finding and
finite differences.
*/
package calc

import (
	"errors"
	"fmt"
	"math"
)

// ErrBracket is returned by Bisect when f(lo) and f(hi) do not have opposite
// signs.
var ErrBracket = errors.New("calc: root is not bracketed")

const (
	defaultMaxIter = 100
	defaultTol     = 1e-3
)

type bisectParams struct {
	maxIter int
	tol     float64
}

type internalBisectOption func(*bisectParams)

// BisectOption configures a call to Bisect.
type BisectOption internalBisectOption

// MaxIter sets the maximum number of halvings Bisect will perform. The
// default is 100.
func MaxIter(n int) BisectOption {
	return func(p *bisectParams) { p.maxIter = n }
}

// Tol sets the bracket half-width at which Bisect stops. The default is 1e-3.
func Tol(tol float64) BisectOption {
	return func(p *bisectParams) { p.tol = tol }
}

func (p *bisectParams) loadOptions(opts []BisectOption) {
	for _, opt := range opts {
		opt(p)
	}
}

// Bisect finds a root of f inside [lo, hi] by repeated halving of the
// bracket. f(lo) and f(hi) must have opposite signs (either may be infinite,
// neither may be NaN); if one of them is exactly zero that end point is
// returned. The returned root is the midpoint of the final bracket along with
// the number of iterations used.
func Bisect(
	f func(float64) float64, lo, hi float64, opts ...BisectOption,
) (root float64, iter int, err error) {
	p := &bisectParams{maxIter: defaultMaxIter, tol: defaultTol}
	p.loadOptions(opts)

	flo, fhi := f(lo), f(hi)
	switch {
	case math.IsNaN(flo) || math.IsNaN(fhi):
		return math.NaN(), 0, fmt.Errorf(
			"%w: f(%g) = %g, f(%g) = %g", ErrBracket, lo, flo, hi, fhi,
		)
	case flo == 0:
		return lo, 0, nil
	case fhi == 0:
		return hi, 0, nil
	case math.Signbit(flo) == math.Signbit(fhi):
		return math.NaN(), 0, fmt.Errorf(
			"%w: f(%g) = %g and f(%g) = %g have the same sign",
			ErrBracket, lo, flo, hi, fhi,
		)
	}

	mid := (lo + hi) / 2
	for iter = 0; iter < p.maxIter; iter++ {
		if (hi-lo)/2 < p.tol {
			break
		}
		fmid := f(mid)
		if fmid == 0 {
			return mid, iter + 1, nil
		}
		if math.Signbit(fmid) == math.Signbit(flo) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
		mid = (lo + hi) / 2
	}

	return mid, iter, nil
}
