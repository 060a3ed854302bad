package io

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/gonum/matrix/mat64"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/phil-mansfield/bathyprof/geo"
	"github.com/phil-mansfield/bathyprof/grid"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func axis(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func signed(xs []float64) []float64 {
	return geo.CanonicalizeAll(xs, geo.Signed)
}

func TestCrop(t *testing.T) {
	table := []struct {
		x, y       []float64
		bounds     geo.Extent
		cols, rows []int
	}{
		{axis(0, 1, 10), axis(9, -1, 10),
			geo.Extent{West: 3.5, East: 5.5, South: 2.2, North: 4.8},
			[]int{2, 3, 4, 5, 6, 7}, []int{3, 4, 5, 6, 7, 8}},
		{signed(axis(170, 1, 20)), axis(9, -1, 10),
			geo.Extent{West: 178.5, East: -178.5, South: 4, North: 5},
			[]int{7, 8, 9, 10, 11, 12, 13}, []int{3, 4, 5, 6}},
		{signed(axis(170, 1, 20)), axis(9, -1, 10),
			geo.Extent{West: 160, East: 171, South: -5, North: 20},
			[]int{0, 1, 2}, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{axis(0, 10, 36), axis(80, -10, 17),
			geo.Extent{West: 355, East: 15, South: -5, North: 5},
			[]int{34, 35, 0, 1, 2, 3}, []int{6, 7, 8, 9, 10}},
	}

	for i, test := range table {
		cols, rows, err := Crop(test.x, test.y, test.bounds, 12)
		if err != nil {
			t.Errorf("%d) Unexpected error: %s", i+1, err)
			continue
		}
		if diff := cmp.Diff(test.cols, cols); diff != "" {
			t.Errorf("%d) Column mismatch (-want +got):\n%s", i+1, diff)
		}
		if diff := cmp.Diff(test.rows, rows); diff != "" {
			t.Errorf("%d) Row mismatch (-want +got):\n%s", i+1, diff)
		}
	}
}

func TestCropNoCoverage(t *testing.T) {
	x, y := axis(0, 1, 10), axis(9, -1, 10)
	table := []geo.Extent{
		{West: 50, East: 60, South: 2, North: 4},
		{West: 2, East: 4, South: 30, North: 40},
	}
	for i, bounds := range table {
		if _, _, err := Crop(x, y, bounds, 12); !errors.Is(err, ErrNoCoverage) {
			t.Errorf("%d) Expected ErrNoCoverage. Got %v.", i+1, err)
		}
	}
}

func TestMemoryFetch(t *testing.T) {
	xs, ys := signed(axis(170, 1, 20)), axis(9, -1, 10)
	z := mat64.NewDense(len(ys), len(xs), nil)
	for i := range ys {
		for j := range xs {
			z.Set(i, j, float64(100*i+j))
		}
	}
	m, err := NewMemory(xs, ys, z, 12)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}

	x, y, sub, err := m.Fetch(geo.Extent{})
	if err != nil || len(x) != 20 || len(y) != 10 || sub != z {
		t.Errorf("Expected the zero Extent to return the whole raster.")
	}

	x, y, sub, err = m.Fetch(geo.Extent{West: 179.5, East: -179.5, South: 4, North: 5})
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if diff := cmp.Diff([]float64{178, 179, -180, -179, -178}, x, approx); diff != "" {
		t.Errorf("X mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{6, 5, 4, 3}, y, approx); diff != "" {
		t.Errorf("Y mismatch (-want +got):\n%s", diff)
	}
	if v := sub.At(0, 0); v != 308 {
		t.Errorf("Expected the first value to be 308. Got %g.", v)
	}
	if v := sub.At(3, 4); v != 612 {
		t.Errorf("Expected the last value to be 612. Got %g.", v)
	}

	xg, yg := grid.Meshgrid(x, y)
	if ok, d := grid.IsGrid(xg, yg, 12); !ok {
		t.Errorf("Expected the subset to be a grid. Got %s.", d)
	}

	ext := m.Extent()
	if ext.West != 170 || ext.East != -171 || ext.South != 0 || ext.North != 9 {
		t.Errorf("Expected the extent to be 170 to -171, 0 to 9. Got %s.", ext)
	}
}

func TestNewMemoryErrors(t *testing.T) {
	x, y := axis(0, 1, 4), axis(3, -1, 4)
	if _, err := NewMemory(x, y, mat64.NewDense(3, 4, nil), 12); !errors.Is(err, grid.ErrInvalidShape) {
		t.Errorf("Expected ErrInvalidShape. Got %v.", err)
	}
	if _, err := NewMemory(x, axis(0, 1, 4), mat64.NewDense(4, 4, nil), 12); !errors.Is(err, grid.ErrNotAGrid) {
		t.Errorf("Expected ErrNotAGrid for an ascending y. Got %v.", err)
	}
	if _, err := NewMemory(x, axis(3, -2, 4), mat64.NewDense(4, 4, nil), 12); !errors.Is(err, grid.ErrNotAGrid) {
		t.Errorf("Expected ErrNotAGrid for unequal steps. Got %v.", err)
	}
}

const esriText = `ncols 4
NROWS 3
xllcorner -1
yllcorner 10
cellsize 0.5
NODATA_value -9999
1 2 3 4
5 -9999 7 8
9 10 11 12
`

func writeFile(t *testing.T, name, text string) string {
	fname := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fname, []byte(text), 0644); err != nil {
		t.Fatalf("Could not write %s: %s", fname, err)
	}
	return fname
}

func TestNewEsriASCII(t *testing.T) {
	m, err := NewEsriASCII(writeFile(t, "grid.asc", esriText), 12)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	x, y, z, err := m.Fetch(geo.Extent{})
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}

	if diff := cmp.Diff([]float64{-0.75, -0.25, 0.25, 0.75}, x, approx); diff != "" {
		t.Errorf("X mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{11.25, 10.75, 10.25}, y, approx); diff != "" {
		t.Errorf("Y mismatch (-want +got):\n%s", diff)
	}
	if !math.IsNaN(z.At(1, 1)) {
		t.Errorf("Expected the NODATA value to be NaN. Got %g.", z.At(1, 1))
	}
	if z.At(0, 0) != 1 || z.At(2, 3) != 12 {
		t.Errorf("Expected the corners to be 1 and 12. Got %g and %g.",
			z.At(0, 0), z.At(2, 3))
	}
}

func TestNewEsriASCIICentered(t *testing.T) {
	text := "ncols 2\nnrows 2\nxllcenter 5\nyllcenter -5\ncellsize 1\n1 2\n3 4\n"
	m, err := NewEsriASCII(writeFile(t, "grid.asc", text), 12)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	ext := m.Extent()
	if ext.West != 5 || ext.East != 6 || ext.South != -5 || ext.North != -4 {
		t.Errorf("Expected the extent to be 5 to 6, -5 to -4. Got %s.", ext)
	}
}

func TestNewEsriASCIIErrors(t *testing.T) {
	table := []string{
		"ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n",
		"ncols 2\nnrows 2\nxllcorner 0\ncellsize 1\n1 2 3 4\n",
		"ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\nrotation 4\n1 2 3 4\n",
		"ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 x 4\n",
		"ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 0\n1 2 3 4\n",
		"ncols 2\nnrows 2\n",
	}
	for i, text := range table {
		if _, err := NewEsriASCII(writeFile(t, "grid.asc", text), 12); err == nil {
			t.Errorf("%d) Expected an error.", i+1)
		}
	}
	if _, err := NewEsriASCII(filepath.Join(t.TempDir(), "missing.asc"), 12); err == nil {
		t.Errorf("Expected an error for a missing file.")
	}
}

// writeNetCDF writes a 3 x 4 raster with south-first rows. If transposed is
// true, z is stored as (lon, lat).
func writeNetCDF(t *testing.T, transposed bool) string {
	lon, lat := []float64{10, 11, 12, 13}, []float64{0, 1, 2}
	base := [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, -32768}}

	zDims := []string{"lat", "lon"}
	vals := make([]float32, 0, 12)
	if transposed {
		zDims = []string{"lon", "lat"}
		for j := range lon {
			for i := range lat {
				vals = append(vals, base[i][j])
			}
		}
	} else {
		for i := range lat {
			vals = append(vals, base[i]...)
		}
	}

	h := cdf.NewHeader([]string{"lon", "lat"}, []int{len(lon), len(lat)})
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddVariable("elevation", zDims, []float32{0})
	h.AddAttribute("elevation", "_FillValue", []float32{-32768})
	h.Define()

	fname := filepath.Join(t.TempDir(), "grid.nc")
	w, err := os.Create(fname)
	if err != nil {
		t.Fatalf("Could not create %s: %s", fname, err)
	}
	defer w.Close()

	f, err := cdf.Create(w, h)
	if err != nil {
		t.Fatalf("Could not write the header of %s: %s", fname, err)
	}
	write := func(v string, data interface{}) {
		end := f.Header.Lengths(v)
		if _, err := f.Writer(v, make([]int, len(end)), end).Write(data); err != nil {
			t.Fatalf("Could not write %s: %s", v, err)
		}
	}
	write("lon", lon)
	write("lat", lat)
	write("elevation", vals)
	if err := cdf.UpdateNumRecs(w); err != nil {
		t.Fatalf("Could not finish %s: %s", fname, err)
	}
	return fname
}

func TestNewNetCDF(t *testing.T) {
	want := [][]float64{{9, 10, 11, math.NaN()}, {5, 6, 7, 8}, {1, 2, 3, 4}}

	for _, transposed := range []bool{false, true} {
		m, err := NewNetCDF(writeNetCDF(t, transposed), DefaultNetCDFVars, 12)
		if err != nil {
			t.Fatalf("%v) Unexpected error: %s", transposed, err)
		}
		x, y, z, _ := m.Fetch(geo.Extent{})
		if diff := cmp.Diff([]float64{10, 11, 12, 13}, x, approx); diff != "" {
			t.Errorf("%v) X mismatch (-want +got):\n%s", transposed, diff)
		}
		if diff := cmp.Diff([]float64{2, 1, 0}, y, approx); diff != "" {
			t.Errorf("%v) Y mismatch (-want +got):\n%s", transposed, diff)
		}
		for i := range want {
			if diff := cmp.Diff(want[i], z.RawRowView(i), cmpopts.EquateNaNs()); diff != "" {
				t.Errorf("%v) Row %d mismatch (-want +got):\n%s", transposed, i, diff)
			}
		}
	}
}

func TestNewNetCDFMissingVariable(t *testing.T) {
	vars := DefaultNetCDFVars
	vars.Z = "depth"
	if _, err := NewNetCDF(writeNetCDF(t, false), vars, 12); err == nil {
		t.Errorf("Expected an error for a missing variable.")
	}
}

func TestFlipRows(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6}
	flipRows(vals, 3, 2)
	if diff := cmp.Diff([]float64{5, 6, 3, 4, 1, 2}, vals); diff != "" {
		t.Errorf("Mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 4, 2, 5, 3, 6},
		transpose([]float64{1, 2, 3, 4, 5, 6}, 2, 3)); diff != "" {
		t.Errorf("Transpose mismatch (-want +got):\n%s", diff)
	}
}

func BenchmarkCrop(b *testing.B) {
	x, y := axis(0, 0.01, 36000), axis(90, -0.01, 18001)
	bounds := geo.Extent{West: 359, East: 1, South: -1, North: 1}
	for i := 0; i < b.N; i++ {
		Crop(x, y, bounds, 12)
	}
}
