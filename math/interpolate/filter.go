package interpolate

import (
	"fmt"
)

// BoundaryCondition is a flag representing the rule used when a smoothing
// window extends outside the data range.
//
// Extension is a good default for rasters: it keeps the mean value of the
// data near the edges. Periodic is the right choice for the longitude axis
// of rasters which wrap around the whole globe.
type BoundaryCondition int

const (
	Periodic BoundaryCondition = iota
	Extension
)

func (b BoundaryCondition) String() string {
	switch b {
	case Periodic:
		return "periodic"
	case Extension:
		return "extension"
	}
	return fmt.Sprintf("BoundaryCondition(%d)", int(b))
}

// index maps i onto the range [0, n) for a particular choice of boundary
// conditions.
func (b BoundaryCondition) index(i, n int) int {
	if i >= 0 && i < n {
		return i
	}

	switch b {
	case Periodic:
		return ((i % n) + n) % n
	case Extension:
		if i < 0 {
			return 0
		}
		return n - 1
	}
	panic(fmt.Sprintf("Unrecognized boundary condition %s.", b))
}

// Pad returns a copy of the row-major rows x cols raster vals surrounded by
// top, bottom, left, and right extra rows and columns. Rows are extended
// according to by and columns according to bx.
func Pad(
	vals []float64, rows, cols int,
	top, bottom, left, right int,
	bx, by BoundaryCondition,
) []float64 {
	if rows*cols != len(vals) {
		panic(fmt.Sprintf(
			"len(vals) = %d, but rows = %d and cols = %d",
			len(vals), rows, cols,
		))
	}

	pRows, pCols := rows+top+bottom, cols+left+right
	out := make([]float64, pRows*pCols)

	colIdx := make([]int, pCols)
	for j := range colIdx {
		colIdx[j] = bx.index(j-left, cols)
	}

	for i := 0; i < pRows; i++ {
		src := by.index(i-top, rows)
		row := vals[src*cols : (src+1)*cols]
		dst := out[i*pCols : (i+1)*pCols]
		copy(dst[left:left+cols], row)
		for j := 0; j < left; j++ {
			dst[j] = row[colIdx[j]]
		}
		for j := left + cols; j < pCols; j++ {
			dst[j] = row[colIdx[j]]
		}
	}

	return out
}

// Convolve2D convolves the row-major rows x cols raster vals with the
// kRows x kCols kernel and returns a raster of the same size as vals. The
// kernel element (kRows/2, kCols/2) is aligned with each output point.
// Points outside the raster are supplied by the boundary conditions bx
// (along rows, i.e. columns beyond the left and right edges) and by (along
// columns).
//
// Kernels are expected to be symmetric, so no distinction is made between
// convolution and correlation.
func Convolve2D(
	vals []float64, rows, cols int,
	kernel []float64, kRows, kCols int,
	bx, by BoundaryCondition,
) []float64 {
	out := make([]float64, rows*cols)
	Convolve2DAt(vals, rows, cols, kernel, kRows, kCols, bx, by, out)
	return out
}

// Convolve2DAt is identical to Convolve2D, but writes its output to out.
func Convolve2DAt(
	vals []float64, rows, cols int,
	kernel []float64, kRows, kCols int,
	bx, by BoundaryCondition, out []float64,
) {
	if kRows*kCols != len(kernel) {
		panic(fmt.Sprintf(
			"len(kernel) = %d, but kRows = %d and kCols = %d",
			len(kernel), kRows, kCols,
		))
	} else if len(out) != rows*cols {
		panic(fmt.Sprintf(
			"len(out) = %d, but rows = %d and cols = %d",
			len(out), rows, cols,
		))
	}

	top, left := kRows/2, kCols/2
	bottom, right := kRows-1-top, kCols-1-left
	padded := Pad(vals, rows, cols, top, bottom, left, right, bx, by)
	pCols := cols + left + right

	for i := range out {
		out[i] = 0
	}

	for i := 0; i < rows; i++ {
		dst := out[i*cols : (i+1)*cols]
		for p := 0; p < kRows; p++ {
			src := padded[(i+p)*pCols : (i+p+1)*pCols]
			for q := 0; q < kCols; q++ {
				w := kernel[p*kCols+q]
				if w == 0 {
					continue
				}
				BaseScaledAdd(w, src[q:q+cols], dst)
			}
		}
	}
}
