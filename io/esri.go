package io

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gonum/matrix/mat64"
)

// EsriHeader holds the header of an Esri ASCII grid. Exactly one of the
// corner or center pairs is set by a file.
type EsriHeader struct {
	Ncols, Nrows     int
	Xcorner, Ycorner float64
	Xcenter, Ycenter float64
	CellSize         float64
	NoDataValue      float64

	centered, hasNoData bool
}

// West returns the longitude of the first column's center.
func (h *EsriHeader) West() float64 {
	if h.centered {
		return h.Xcenter
	}
	return h.Xcorner + h.CellSize/2
}

// South returns the latitude of the last row's center.
func (h *EsriHeader) South() float64 {
	if h.centered {
		return h.Ycenter
	}
	return h.Ycorner + h.CellSize/2
}

// NewEsriASCII reads an entire Esri ASCII grid into memory. Missing values
// are returned as NaN.
func NewEsriASCII(fname string, precision int) (*Memory, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(bufio.NewReader(f))
	sc.Buffer(make([]byte, 1<<16), 1<<20)
	sc.Split(bufio.ScanWords)

	hd, first, err := readEsriHeader(sc)
	if err != nil {
		return nil, fmt.Errorf("I couldn't read the header of '%s': %w", fname, err)
	}
	vals, err := readEsriValues(sc, hd, first)
	if err != nil {
		return nil, fmt.Errorf("I couldn't read the values in '%s': %w", fname, err)
	}

	x, y := make([]float64, hd.Ncols), make([]float64, hd.Nrows)
	for j := range x {
		x[j] = hd.West() + float64(j)*hd.CellSize
	}
	for i := range y {
		y[i] = hd.South() + float64(hd.Nrows-1-i)*hd.CellSize
	}

	return NewMemory(x, y, mat64.NewDense(hd.Nrows, hd.Ncols, vals), precision)
}

// readEsriHeader reads key-value pairs until it finds the first numeric
// token, which it returns alongside the header.
func readEsriHeader(sc *bufio.Scanner) (*EsriHeader, string, error) {
	hd := &EsriHeader{}
	seen := map[string]bool{}
	for sc.Scan() {
		key := strings.ToLower(sc.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			return hd, key, checkEsriHeader(hd, seen)
		}
		if !sc.Scan() {
			break
		}
		val, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, "", fmt.Errorf("the value of %s, '%s', isn't a number", key, sc.Text())
		}
		seen[key] = true

		switch key {
		case "ncols":
			hd.Ncols = int(val)
		case "nrows":
			hd.Nrows = int(val)
		case "xllcorner":
			hd.Xcorner = val
		case "yllcorner":
			hd.Ycorner = val
		case "xllcenter":
			hd.Xcenter, hd.centered = val, true
		case "yllcenter":
			hd.Ycenter, hd.centered = val, true
		case "cellsize":
			hd.CellSize = val
		case "nodata_value":
			hd.NoDataValue, hd.hasNoData = val, true
		default:
			return nil, "", fmt.Errorf("'%s' isn't a valid header key", key)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, "", err
	}
	return nil, "", fmt.Errorf("the file ended before any values")
}

func checkEsriHeader(hd *EsriHeader, seen map[string]bool) error {
	for _, key := range []string{"ncols", "nrows", "cellsize"} {
		if !seen[key] {
			return fmt.Errorf("the header has no %s", key)
		}
	}
	if hd.centered {
		if !seen["xllcenter"] || !seen["yllcenter"] {
			return fmt.Errorf("the header must set both xllcenter and yllcenter")
		}
	} else if !seen["xllcorner"] || !seen["yllcorner"] {
		return fmt.Errorf("the header must set both xllcorner and yllcorner")
	}
	if hd.Ncols < 2 || hd.Nrows < 2 {
		return fmt.Errorf("the grid is %d x %d, but must be at least 2 x 2",
			hd.Nrows, hd.Ncols)
	}
	if !(hd.CellSize > 0) {
		return fmt.Errorf("cellsize is %g, but must be positive", hd.CellSize)
	}
	return nil
}

func readEsriValues(sc *bufio.Scanner, hd *EsriHeader, first string) ([]float64, error) {
	vals := make([]float64, 0, hd.Nrows*hd.Ncols)
	tok := first
	for {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d, '%s', isn't a number", len(vals), tok)
		}
		if hd.hasNoData && isMissing(v, hd.NoDataValue) {
			v = math.NaN()
		}
		vals = append(vals, v)

		if !sc.Scan() {
			break
		}
		tok = sc.Text()
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(vals) != hd.Nrows*hd.Ncols {
		return nil, fmt.Errorf("the header promises %d x %d values, but "+
			"there are %d", hd.Nrows, hd.Ncols, len(vals))
	}
	return vals, nil
}
