/*package mask designs separable two-dimensional low-pass masks which are
applied to rasters before they are sampled more coarsely than their native
resolution.

The length of each mask axis is chosen so that its frequency response reaches
a requested attenuation at the Nyquist frequency of the coarser sampling. The
responses of each window family are modeled by fitted closed-form
expressions, k(h) = a - b/(h + 1), where h is the half-length of the window in
samples and (a, b) depend on the window family and attenuation class. The
half-length is the root of k(h)/h - fs/(2 fs0), found by bisection.
*/
package mask

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"

	"github.com/phil-mansfield/bathyprof/math/calc"
)

var (
	ErrInvalidAttenuation  = errors.New("mask: invalid attenuation class")
	ErrInvalidFamily       = errors.New("mask: invalid window family")
	ErrRootBracket         = errors.New("mask: half-length is not bracketed")
	ErrTargetExceedsSource = errors.New("mask: target frequency exceeds source frequency")
	ErrTooManyAxes         = errors.New("mask: more than two target frequencies")
)

// Family is a window family.
type Family int

const (
	// Rect is a boxcar window.
	Rect Family = iota
	// Hann is a raised cosine window.
	Hann
)

func (f Family) String() string {
	switch f {
	case Rect:
		return "rect"
	case Hann:
		return "hann"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ParseFamily converts a family name, as returned by Family.String(), into a
// Family.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "rect":
		return Rect, nil
	case "hann":
		return Hann, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFamily, s)
}

// Attenuation is the response a mask must reach at the Nyquist frequency of
// the target sampling.
type Attenuation int

const (
	// FirstNull places the first zero of the response at the Nyquist
	// frequency.
	FirstNull Attenuation = iota
	// Minus6dB halves the amplitude at the Nyquist frequency.
	Minus6dB
	// Minus3dB halves the power at the Nyquist frequency.
	Minus3dB
)

func (a Attenuation) String() string {
	switch a {
	case FirstNull:
		return "first-null"
	case Minus6dB:
		return "-6dB"
	case Minus3dB:
		return "-3dB"
	}
	return fmt.Sprintf("Attenuation(%d)", int(a))
}

// ParseAttenuation converts a class name, as returned by
// Attenuation.String(), into an Attenuation.
func ParseAttenuation(s string) (Attenuation, error) {
	switch s {
	case "first-null":
		return FirstNull, nil
	case "-6dB":
		return Minus6dB, nil
	case "-3dB":
		return Minus3dB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAttenuation, s)
}

// coeffs are the (a, b) pairs of k(h) = a - b/(h + 1), indexed by
// [Family][Attenuation].
var coeffs = [2][3][2]float64{
	Rect: {
		FirstNull: {0.5, 0.25},
		Minus6dB:  {0.3017, 0.1509},
		Minus3dB:  {0.2215, 0.1108},
	},
	Hann: {
		FirstNull: {1.0, 0.9},
		Minus6dB:  {0.5, 0.45},
		Minus3dB:  {0.36, 0.324},
	},
}

// Check returns an error if either the window family or the attenuation
// class is not a known variant.
func Check(family Family, att Attenuation) error {
	if att < FirstNull || att > Minus3dB {
		return fmt.Errorf("%w: %d is not one of 0, 1, or 2", ErrInvalidAttenuation, int(att))
	}
	if family != Rect && family != Hann {
		return fmt.Errorf("%w: %d", ErrInvalidFamily, int(family))
	}
	return nil
}

func checkFrequencies(fs0, fs float64) error {
	if fs > fs0 {
		return fmt.Errorf(
			"%w: fs = %g, but fs0 = %g", ErrTargetExceedsSource, fs, fs0,
		)
	} else if !(fs > 0) || math.IsInf(fs0, 0) {
		return fmt.Errorf(
			"mask: sampling frequencies must be positive and finite, got fs = %g, fs0 = %g",
			fs, fs0,
		)
	}
	return nil
}

// Response evaluates the modeled response residual of a window with
// half-length h: k(h)/h - fs/(2 fs0). It is positive for windows which are
// too short to reach the requested attenuation and negative for windows
// which are longer than necessary.
func Response(h, fs0, fs float64, att Attenuation, family Family) (float64, error) {
	if err := Check(family, att); err != nil {
		return math.NaN(), err
	}
	if err := checkFrequencies(fs0, fs); err != nil {
		return math.NaN(), err
	}
	return response(h, fs0, fs, coeffs[family][att]), nil
}

func response(h, fs0, fs float64, ab [2]float64) float64 {
	k := ab[0] - ab[1]/(h+1)
	return k/h - fs/(2*fs0)
}

// SolveHalfLength returns the half-length, in samples, of a window which
// filters a signal sampled at fs0 so that it can be resampled at fs. The
// root is bracketed by [0, 4 fs0/fs].
func SolveHalfLength(fs0, fs float64, att Attenuation, family Family) (float64, error) {
	if err := Check(family, att); err != nil {
		return math.NaN(), err
	}
	if err := checkFrequencies(fs0, fs); err != nil {
		return math.NaN(), err
	}

	ab := coeffs[family][att]
	f := func(h float64) float64 { return response(h, fs0, fs, ab) }
	h, _, err := calc.Bisect(f, 0, 4*fs0/fs)
	if err != nil {
		return math.NaN(), fmt.Errorf(
			"%w (fs0 = %g, fs = %g, %s, %s): %v",
			ErrRootBracket, fs0, fs, family, att, err,
		)
	}
	return h, nil
}

// Size returns the real-valued lengths of the mask axes. fs holds one target
// frequency, which sizes both axes, or two, which size the rows and columns
// respectively.
func Size(
	fs0 float64, fs []float64, att Attenuation, family Family,
) (rows, cols float64, err error) {
	switch len(fs) {
	case 0:
		return math.NaN(), math.NaN(), fmt.Errorf(
			"mask: no target frequencies given",
		)
	case 1, 2:
	default:
		return math.NaN(), math.NaN(), fmt.Errorf(
			"%w: got %d", ErrTooManyAxes, len(fs),
		)
	}

	hRows, err := SolveHalfLength(fs0, fs[0], att, family)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	hCols := hRows
	if len(fs) == 2 {
		hCols, err = SolveHalfLength(fs0, fs[1], att, family)
		if err != nil {
			return math.NaN(), math.NaN(), err
		}
	}

	return 2*hRows + 1, 2*hCols + 1, nil
}

// Mask is a normalized, separable low-pass kernel. Weights has Rows rows and
// Cols columns and sums to one.
type Mask struct {
	Rows, Cols int
	Weights    *mat64.Dense
}

// Sum returns the sum of the mask's weights.
func (m *Mask) Sum() float64 {
	return floats.Sum(m.Weights.RawMatrix().Data)
}

// Raw returns the weights as a row-major slice.
func (m *Mask) Raw() []float64 {
	return m.Weights.RawMatrix().Data
}

// IsIdentity returns true if the mask leaves data unchanged.
func (m *Mask) IsIdentity() bool {
	return m.Rows == 1 && m.Cols == 1
}

// Build creates the mask sized by Size. Each axis gets an odd length,
// 2 round(h) + 1, so the mask is centred on a sample. Axes whose target
// frequency is at least fs0 need no filtering and get a length of one.
func Build(fs0 float64, fs []float64, att Attenuation, family Family) (*Mask, error) {
	rows, cols, err := Size(fs0, fs, att, family)
	if err != nil {
		return nil, err
	}
	nRows, nCols := length(rows), length(cols)
	if fs[0] >= fs0 {
		nRows = 1
	}
	if fs[len(fs)-1] >= fs0 {
		nCols = 1
	}

	wRows := mat64.NewVector(nRows, Window(family, nRows))
	wCols := mat64.NewVector(nCols, Window(family, nCols))

	w := &mat64.Dense{}
	w.Outer(1, wRows, wCols)

	data := w.RawMatrix().Data
	floats.Scale(1/floats.Sum(data), data)

	return &Mask{Rows: nRows, Cols: nCols, Weights: w}, nil
}

// length converts a real window length, 2h + 1, into an odd number of
// samples.
func length(x float64) int {
	h := math.Round((x - 1) / 2)
	if h < 0 {
		return 1
	}
	return 2*int(h) + 1
}

// Window returns an unnormalized window of the given family and length.
// Hann windows do not include their zero-valued end points.
func Window(family Family, n int) []float64 {
	w := make([]float64, n)
	switch family {
	case Rect:
		for i := range w {
			w[i] = 1
		}
	case Hann:
		for i := range w {
			w[i] = (1 - math.Cos(2*math.Pi*float64(i+1)/float64(n+1))) / 2
		}
	default:
		panic(fmt.Sprintf("Unknown window family %d.", int(family)))
	}
	return w
}
