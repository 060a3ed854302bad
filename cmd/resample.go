package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/phil-mansfield/bathyprof/cmd/catalog"
	"github.com/phil-mansfield/bathyprof/geo"
	"github.com/phil-mansfield/bathyprof/grid"
	"github.com/phil-mansfield/bathyprof/logging"
	"github.com/phil-mansfield/bathyprof/mask"
	"github.com/phil-mansfield/bathyprof/parse"
)

type ResampleConfig struct {
	factor                   float64
	attenuation, window      string
	west, east, south, north float64

	vars *parse.ConfigVars
	grid grid.ResampleConfig
}

var _ Mode = &ResampleConfig{}

func (config *ResampleConfig) ExampleConfig() string {
	return `[resample.config]

#####################
## Required Fields ##
#####################

# Factor is the ratio of the new sampling frequency to the old one. Factors
# below 1 make the grid coarser and low-pass filter it first so that small
# features don't alias. Factors above 1 interpolate onto a finer grid.
Factor = 0.5

#####################
## Optional Fields ##
#####################

# Attenuation is how strongly features at the new Nyquist frequency are
# suppressed.
#
# The supported classes are:
# first-null - The response of the filter is zero at the Nyquist frequency.
# -6dB       - The amplitude is halved at the Nyquist frequency.
# -3dB       - The power is halved at the Nyquist frequency.
#
# The default value is -6dB.
Attenuation = -6dB

# Window is the shape of the filter. rect is a moving average and hann is a
# raised cosine. The default value is rect.
Window = rect

# West, East, South, and North restrict the part of the raster which is
# resampled. West may be larger than East if the region crosses the
# antimeridian. By default the whole raster is used.
# West = -10
# East = 10
# South = -5
# North = 5`
}

func (config *ResampleConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("resample.config")
	config.vars = vars
	vars.Float(&config.factor, "Factor", 1)
	vars.String(&config.attenuation, "Attenuation", mask.Minus6dB.String())
	vars.String(&config.window, "Window", mask.Rect.String())
	vars.Float(&config.west, "West", 0)
	vars.Float(&config.east, "East", 0)
	vars.Float(&config.south, "South", 0)
	vars.Float(&config.north, "North", 0)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}
	return config.validate()
}

func (config *ResampleConfig) validate() error {
	var err error
	config.grid = grid.DefaultResampleConfig()
	config.grid.Factor = config.factor
	if config.grid.Attenuation, err = mask.ParseAttenuation(config.attenuation); err != nil {
		return fmt.Errorf("The 'Attenuation' variable is set to '%s', which "+
			"I don't recognize.", config.attenuation)
	}
	if config.grid.Family, err = mask.ParseFamily(config.window); err != nil {
		return fmt.Errorf("The 'Window' variable is set to '%s', which "+
			"I don't recognize.", config.window)
	}
	if err = config.grid.Validate(); err != nil {
		return fmt.Errorf("The 'Factor' variable is set to %g, but %s",
			config.factor, err.Error())
	}
	return checkExtent(config.extent())
}

func (config *ResampleConfig) extent() geo.Extent {
	return geo.Extent{
		West: config.west, East: config.east,
		South: config.south, North: config.north,
	}
}

func (config *ResampleConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if err := parse.ReadFlags(flags, config.vars); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	var t time.Time
	if logging.Mode == logging.Performance {
		t = time.Now()
	}

	xs, ys, z, err := readExtent(gConfig, config.extent())
	if err != nil {
		return nil, err
	}
	x, y := grid.Meshgrid(xs, ys)

	cfg := config.grid
	cfg.Precision = int(gConfig.Precision)
	l, err := grid.Resample(x, y, z, cfg)
	if err != nil {
		return nil, err
	}

	rows, cols := l.Z.Dims()
	if logging.Mode == logging.Performance {
		slog.Info("resampled raster", "elapsed", time.Since(t),
			"memory", logging.MemString())
	}
	slog.Debug("resampled raster", "from", fmt.Sprintf("%d x %d", len(ys), len(xs)),
		"to", fmt.Sprintf("%d x %d", rows, cols))

	lons := make([]float64, 0, rows*cols)
	lats := make([]float64, 0, rows*cols)
	depths := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		lons = append(lons, l.X.RawRowView(i)...)
		lats = append(lats, l.Y.RawRowView(i)...)
		depths = append(depths, l.Z.RawRowView(i)...)
	}

	order, sizes := []int{0, 1, 2}, []int{1, 1, 1}
	lines := []string{
		fmt.Sprintf("# Resampled a %d x %d grid to %d x %d with factor %g.",
			len(ys), len(xs), rows, cols, cfg.Factor),
		catalog.CommentString(nil, []string{"Lon", "Lat", "Depth"}, order, sizes),
	}
	return append(lines, catalog.FormatCols(
		nil, [][]float64{lons, lats, depths}, order,
	)...), nil
}
