/*package interpolate implements bi-linear interpolation on rectilinear
rasters as well as the padding and convolution routines used to low-pass
filter them.
*/
package interpolate

// BiInterpolator is a 2D interpolator. Implementations are read-only after
// construction and may be shared between goroutines.
type BiInterpolator interface {
	// Eval evaluates the interpolator at a point.
	Eval(x, y float64) float64
	// EvalAll evaluates a sequeunce of points and returns the result. An
	// optional output array can be supplied to prevent unneeded heap
	// allocations.
	EvalAll(xs, ys []float64, out ...[]float64) []float64
	// Contains returns true if the point can be evaluated.
	Contains(x, y float64) bool
}

var _ BiInterpolator = &BiLinear{}
