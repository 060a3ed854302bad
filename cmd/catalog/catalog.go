/*package catalog reads and writes the whitespace-separated column text that
bathyprof modes take on stdin and write to stdout. Lines starting with '#'
are comments.*/
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// CommentString returns a comment line naming each column of a table. order
// gives the position of each named column and sizes gives the number of
// text columns it spans.
func CommentString(
	intNames, floatNames []string, order, sizes []int,
) string {
	names := append(append([]string{}, intNames...), floatNames...)

	tokens := []string{"# Column contents:"}
	n := 0
	for _, idx := range order {
		if idx >= len(names) {
			panic("Column ordering out of range.")
		}
		if sizes[idx] == 1 {
			tokens = append(tokens, fmt.Sprintf("%s(%d)", names[idx], n))
		} else {
			tokens = append(tokens, fmt.Sprintf("%s(%d-%d)",
				names[idx], n, n+sizes[idx]-1))
		}
		n += sizes[idx]
	}

	return strings.Join(tokens, " ")
}

// FormatCols lays out integer and float columns as aligned text lines.
// Columns are written in the given order, where indices count the integer
// columns first.
func FormatCols(intCols [][]int, floatCols [][]float64, order []int) []string {
	cols := make([][]string, 0, len(intCols)+len(floatCols))
	for i := range intCols {
		cols = append(cols, formatCol(len(intCols[i]), func(j int) string {
			return strconv.Itoa(intCols[i][j])
		}))
	}
	for i := range floatCols {
		cols = append(cols, formatCol(len(floatCols[i]), func(j int) string {
			return strconv.FormatFloat(floatCols[i][j], 'g', 8, 64)
		}))
	}
	if len(cols) == 0 || len(cols[0]) == 0 {
		return []string{}
	}

	height := len(cols[0])
	for i := range cols {
		if len(cols[i]) != height {
			panic("Columns of unequal height.")
		}
	}

	lines := make([]string, height)
	tokens := make([]string, len(order))
	for i := 0; i < height; i++ {
		for k, idx := range order {
			if idx >= len(cols) {
				panic("Column ordering out of range.")
			}
			tokens[k] = cols[idx][i]
		}
		lines[i] = strings.Join(tokens, " ")
	}

	return lines
}

// formatCol right-aligns n formatted values to a common width.
func formatCol(n int, format func(int) string) []string {
	out := make([]string, n)
	width := 0
	for i := range out {
		out[i] = format(i)
		if len(out[i]) > width {
			width = len(out[i])
		}
	}
	for i := range out {
		out[i] = fmt.Sprintf("%*s", width, out[i])
	}
	return out
}

// ParseCols parses the specified columns out of text lines. Comments and
// blank lines are skipped, and every remaining line must have the same
// number of columns.
func ParseCols(lines []string, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	icols := make([][]int, len(icolIdxs))
	fcols := make([][]float64, len(fcolIdxs))

	width, n := -1, 0
	for i, line := range lines {
		if c := strings.IndexByte(line, '#'); c != -1 {
			line = line[:c]
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		n++
		if width == -1 {
			width = len(words)
		} else if len(words) != width {
			return nil, nil, fmt.Errorf(
				"Line %d has %d columns, not %d.", i+1, len(words), width,
			)
		}

		for j, idx := range icolIdxs {
			if idx >= len(words) {
				return nil, nil, fmt.Errorf("Line %d has %d columns, but "+
					"I need column %d.", i+1, len(words), idx)
			}
			v, err := strconv.Atoi(words[idx])
			if err != nil {
				return nil, nil, fmt.Errorf("I couldn't parse column %d of "+
					"line %d, '%s', as an integer.", idx, i+1, words[idx])
			}
			icols[j] = append(icols[j], v)
		}
		for j, idx := range fcolIdxs {
			if idx >= len(words) {
				return nil, nil, fmt.Errorf("Line %d has %d columns, but "+
					"I need column %d.", i+1, len(words), idx)
			}
			v, err := strconv.ParseFloat(words[idx], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("I couldn't parse column %d of "+
					"line %d, '%s', as a number.", idx, i+1, words[idx])
			}
			fcols[j] = append(fcols[j], v)
		}
	}

	for j := range icols {
		if icols[j] == nil {
			icols[j] = make([]int, n)
		}
	}
	for j := range fcols {
		if fcols[j] == nil {
			fcols[j] = make([]float64, n)
		}
	}
	return icols, fcols, nil
}
