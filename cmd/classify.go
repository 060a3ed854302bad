package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gonum/matrix/mat64"

	"github.com/phil-mansfield/bathyprof/cmd/catalog"
	"github.com/phil-mansfield/bathyprof/geo"
	"github.com/phil-mansfield/bathyprof/grid"
	"github.com/phil-mansfield/bathyprof/parse"
)

type ClassifyConfig struct {
	west, east, south, north float64

	vars *parse.ConfigVars
}

var _ Mode = &ClassifyConfig{}

func (config *ClassifyConfig) ExampleConfig() string {
	return `[classify.config]

#####################
## Optional Fields ##
#####################

# The classify mode reports whether a set of points forms a grid. If points
# are piped into stdin as "lon lat" lines, those points are classified and
# the raster is never read. Otherwise the raster itself is classified.
#
# West, East, South, and North restrict the part of the raster which is
# classified. West may be larger than East if the region crosses the
# antimeridian. By default the whole raster is used.
# West = -10
# East = 10
# South = -5
# North = 5`
}

func (config *ClassifyConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("classify.config")
	config.vars = vars
	vars.Float(&config.west, "West", 0)
	vars.Float(&config.east, "East", 0)
	vars.Float(&config.south, "South", 0)
	vars.Float(&config.north, "North", 0)

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return checkExtent(config.extent())
}

func (config *ClassifyConfig) extent() geo.Extent {
	return geo.Extent{
		West: config.west, East: config.east,
		South: config.south, North: config.north,
	}
}

func (config *ClassifyConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if err := parse.ReadFlags(flags, config.vars); err != nil {
		return nil, err
	}
	if err := checkExtent(config.extent()); err != nil {
		return nil, err
	}
	r := int(gConfig.Precision)

	var (
		x, y  *mat64.Dense
		shape grid.Shape
	)
	if hasData(stdin) {
		_, cols, err := catalog.ParseCols(stdin, []int{}, []int{0, 1})
		if err != nil {
			return nil, err
		}
		lons, lats := cols[0], cols[1]

		var ok bool
		if shape, ok = grid.IsVectorizedGrid(lons, lats, r); !ok {
			ext, err := geo.Bounds(lons, lats, r)
			if err != nil {
				return nil, err
			}
			slog.Info("classified points", "points", len(lons), "grid", false)
			return []string{
				fmt.Sprintf("# %d points which can't be reshaped into a grid.",
					len(lons)),
				fmt.Sprintf("# Extent: %s", ext),
			}, nil
		}
		x, y = grid.Reshape(lons, shape), grid.Reshape(lats, shape)
	} else {
		xs, ys, _, err := readExtent(gConfig, config.extent())
		if err != nil {
			return nil, err
		}
		x, y = grid.Meshgrid(xs, ys)
		shape = grid.Shape{Rows: len(ys), Cols: len(xs)}
	}

	return classify(x, y, shape, r)
}

// classify summarizes a pair of meshes as a single output line.
func classify(x, y *mat64.Dense, shape grid.Shape, r int) ([]string, error) {
	ok, diag := grid.IsGrid(x, y, r)
	xs, ys := grid.Axis(x, grid.Horizontal), grid.Axis(y, grid.Vertical)
	ext, err := axesExtent(xs, ys, r)
	if err != nil {
		return nil, err
	}
	xlo, xhi := grid.ResolutionStep(xs, grid.Horizontal, r)
	ylo, yhi := grid.ResolutionStep(ys, grid.Vertical, r)

	slog.Info("classified points", "rows", shape.Rows, "cols", shape.Cols,
		"grid", ok)

	intNames := []string{"Rows", "Cols", "ColumnMajor", "Grid"}
	floatNames := []string{"West", "East", "South", "North",
		"XStepMin", "XStepMax", "YStepMin", "YStepMax"}
	order := make([]int, len(intNames)+len(floatNames))
	sizes := make([]int, len(order))
	for i := range order {
		order[i], sizes[i] = i, 1
	}

	intCols := [][]int{{shape.Rows}, {shape.Cols},
		{boolInt(shape.ColumnMajor)}, {boolInt(ok)}}
	floatCols := [][]float64{{ext.West}, {ext.East}, {ext.South},
		{ext.North}, {xlo}, {xhi}, {ylo}, {yhi}}

	lines := []string{
		fmt.Sprintf("# %s", diag),
		catalog.CommentString(intNames, floatNames, order, sizes),
	}
	return append(lines, catalog.FormatCols(intCols, floatCols, order)...), nil
}

// axesExtent returns the extent covered by a longitude and a latitude axis,
// which may have different lengths.
func axesExtent(xs, ys []float64, r int) (geo.Extent, error) {
	west, east, err := geo.Boundaries(xs, r)
	if err != nil {
		return geo.Extent{}, err
	}
	south, north, err := geo.VerticalLimits(ys)
	if err != nil {
		return geo.Extent{}, err
	}
	return geo.Extent{West: west, East: east, South: south, North: north}, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// hasData returns true if any line contains something other than comments
// and whitespace.
func hasData(lines []string) bool {
	for _, line := range lines {
		for _, c := range line {
			if c == '#' {
				break
			} else if c != ' ' && c != '\t' && c != '\r' {
				return true
			}
		}
	}
	return false
}
