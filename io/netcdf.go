package io

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/gonum/matrix/mat64"
)

// NetCDFVars names the variables of a NetCDF raster.
type NetCDFVars struct {
	X, Y, Z string
}

// DefaultNetCDFVars are the names used by GEBCO and most COARDS rasters.
var DefaultNetCDFVars = NetCDFVars{X: "lon", Y: "lat", Z: "elevation"}

// NewNetCDF reads an entire NetCDF raster into memory. Z may be stored as
// either (y, x) or (x, y) and y may be stored in either order. Values equal
// to Z's _FillValue or missing_value attribute are returned as NaN.
func NewNetCDF(fname string, vars NetCDFVars, precision int) (*Memory, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nc, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("I couldn't open '%s' as a NetCDF file: %w", fname, err)
	}

	for _, v := range []string{vars.X, vars.Y, vars.Z} {
		if !hasVariable(nc.Header, v) {
			return nil, fmt.Errorf("'%s' has no variable named '%s'", fname, v)
		}
	}

	x, err := readVariable(nc, vars.X)
	if err != nil {
		return nil, fmt.Errorf("I couldn't read %s from '%s': %w", vars.X, fname, err)
	}
	y, err := readVariable(nc, vars.Y)
	if err != nil {
		return nil, fmt.Errorf("I couldn't read %s from '%s': %w", vars.Y, fname, err)
	}
	vals, err := readVariable(nc, vars.Z)
	if err != nil {
		return nil, fmt.Errorf("I couldn't read %s from '%s': %w", vars.Z, fname, err)
	}

	dims := nc.Header.Dimensions(vars.Z)
	if len(dims) != 2 || len(vals) != len(x)*len(y) {
		return nil, fmt.Errorf("%s in '%s' has dimensions %v, but must be "+
			"%d x %d", vars.Z, fname, dims, len(y), len(x))
	}

	if xDims := nc.Header.Dimensions(vars.X); len(xDims) == 1 && dims[0] == xDims[0] {
		vals = transpose(vals, len(x), len(y))
	}
	if len(y) >= 2 && y[0] < y[len(y)-1] {
		reverse(y)
		flipRows(vals, len(y), len(x))
	}

	for _, name := range []string{"_FillValue", "missing_value"} {
		fill, ok := numericAttribute(nc.Header, vars.Z, name)
		if !ok {
			continue
		}
		for i := range vals {
			if isMissing(vals[i], fill) {
				vals[i] = math.NaN()
			}
		}
	}

	return NewMemory(x, y, mat64.NewDense(len(y), len(x), vals), precision)
}

func hasVariable(h *cdf.Header, name string) bool {
	for _, v := range h.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// readVariable reads a whole variable, converting it to float64.
func readVariable(nc *cdf.File, name string) ([]float64, error) {
	n := 1
	for _, l := range nc.Header.Lengths(name) {
		n *= l
	}

	r := nc.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	switch b := buf.(type) {
	case []float64:
		copy(out, b)
	case []float32:
		for i := range b {
			out[i] = float64(b[i])
		}
	case []int32:
		for i := range b {
			out[i] = float64(b[i])
		}
	case []int16:
		for i := range b {
			out[i] = float64(b[i])
		}
	case []int8:
		for i := range b {
			out[i] = float64(b[i])
		}
	case []uint8:
		for i := range b {
			out[i] = float64(b[i])
		}
	default:
		return nil, fmt.Errorf("%s has unsupported type %T", name, buf)
	}
	return out, nil
}

func numericAttribute(h *cdf.Header, v, name string) (float64, bool) {
	switch a := h.GetAttribute(v, name).(type) {
	case []float64:
		if len(a) > 0 {
			return a[0], true
		}
	case []float32:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []int32:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []int16:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []int8:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	}
	return 0, false
}

// transpose converts a row-major rows x cols array into a row-major
// cols x rows array.
func transpose(vals []float64, rows, cols int) []float64 {
	out := make([]float64, len(vals))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = vals[i*cols+j]
		}
	}
	return out
}
