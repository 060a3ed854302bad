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
	"github.com/phil-mansfield/bathyprof/profile"
)

type ProfileConfig struct {
	sourceLon, sourceLat float64
	azimuths             []float64
	maxRange, rangeStep  float64
	transectMode         string
	attenuation, window  string
	maxPoints, workers   int64
	margin               float64

	vars    *parse.ConfigVars
	profile profile.Config
}

var _ Mode = &ProfileConfig{}

func (config *ProfileConfig) ExampleConfig() string {
	return `[profile.config]

#####################
## Required Fields ##
#####################

# SourceLon and SourceLat give the position of the source in degrees. Every
# transect starts here.
SourceLon = -155.5
SourceLat = 19.5

# Azimuths lists the directions of the transects in degrees clockwise from
# north. One transect is extracted for each azimuth.
Azimuths = 0, 90, 180, 270

# MaxRange is the length of every transect in metres.
MaxRange = 50000

#####################
## Optional Fields ##
#####################

# RangeStep is the distance between samples in metres. The default value is
# 100.
RangeStep = 100

# TransectMode controls what happens when MaxRange isn't a multiple of
# RangeStep.
#
# The supported modes are:
# normal - Samples are exactly RangeStep apart and the last one may fall
#          short of the receiver.
# adjust - The step is changed slightly so that the last sample lands on the
#          receiver.
#
# The default value is normal.
TransectMode = normal

# Attenuation and Window describe the low-pass filter applied to the raster
# when RangeStep is coarser than the raster. See resample.config for the
# supported values. The defaults are -6dB and rect.
Attenuation = -6dB
Window = rect

# MaxPoints is a soft limit on the number of samples in a transect. Longer
# transects are still extracted, but a warning is written. 0 means no limit.
MaxPoints = 0

# Workers is the number of transects extracted at the same time. The default
# value is 1.
Workers = 1

# Margin is the number of degrees of raster read around the transects. The
# default value is 0.5.
Margin = 0.5`
}

func (config *ProfileConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("profile.config")
	config.vars = vars
	vars.Float(&config.sourceLon, "SourceLon", 0)
	vars.Float(&config.sourceLat, "SourceLat", 0)
	vars.Floats(&config.azimuths, "Azimuths", []float64{})
	vars.Float(&config.maxRange, "MaxRange", 0)
	vars.Float(&config.rangeStep, "RangeStep", 100)
	vars.String(&config.transectMode, "TransectMode", profile.Normal.String())
	vars.String(&config.attenuation, "Attenuation", mask.Minus6dB.String())
	vars.String(&config.window, "Window", mask.Rect.String())
	vars.Int(&config.maxPoints, "MaxPoints", 0)
	vars.Int(&config.workers, "Workers", 1)
	vars.Float(&config.margin, "Margin", 0.5)

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

func (config *ProfileConfig) validate() error {
	if len(config.azimuths) == 0 {
		return fmt.Errorf("The 'Azimuths' variable isn't set. Either set " +
			"it in a profile.config file or pass the --Azimuths flag.")
	}
	if !(config.maxRange > 0) {
		return fmt.Errorf("The 'MaxRange' variable is set to %g, but it "+
			"must be positive.", config.maxRange)
	}
	if config.sourceLat < -90 || config.sourceLat > 90 {
		return fmt.Errorf("The 'SourceLat' variable is set to %g, but it "+
			"must be between -90 and 90.", config.sourceLat)
	}
	if config.margin < 0 {
		return fmt.Errorf("The 'Margin' variable is set to %g, but it "+
			"can't be negative.", config.margin)
	}

	var err error
	config.profile = profile.DefaultConfig()
	config.profile.RangeStep = config.rangeStep
	config.profile.MaxPoints = int(config.maxPoints)
	config.profile.Workers = int(config.workers)
	if config.profile.Mode, err = profile.ParseMode(config.transectMode); err != nil {
		return fmt.Errorf("The 'TransectMode' variable is set to '%s', "+
			"which I don't recognize.", config.transectMode)
	}
	if config.profile.Attenuation, err = mask.ParseAttenuation(config.attenuation); err != nil {
		return fmt.Errorf("The 'Attenuation' variable is set to '%s', which "+
			"I don't recognize.", config.attenuation)
	}
	if config.profile.Family, err = mask.ParseFamily(config.window); err != nil {
		return fmt.Errorf("The 'Window' variable is set to '%s', which "+
			"I don't recognize.", config.window)
	}
	return config.profile.Validate()
}

func (config *ProfileConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if err := parse.ReadFlags(flags, config.vars); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	if logging.Mode != logging.Nil {
		slog.Info("starting profile mode", "azimuths", len(config.azimuths),
			"range", config.maxRange)
	}
	var t time.Time
	if logging.Mode == logging.Performance {
		t = time.Now()
	}

	r := int(gConfig.Precision)
	src := geo.Point{Lon: config.sourceLon, Lat: config.sourceLat}
	transects, err := profile.BuildTransects(
		geo.WGS84, []geo.Point{src}, config.azimuths,
		[]float64{config.maxRange},
	)
	if err != nil {
		return nil, err
	}

	need, err := transectExtent(geo.WGS84, transects, r)
	if err != nil {
		return nil, err
	}
	xs, ys, z, err := readExtent(gConfig, need.Grow(config.margin))
	if err != nil {
		return nil, err
	}
	x, y := grid.Meshgrid(xs, ys)

	cfg := config.profile
	cfg.Precision = r
	res, err := profile.Extract(geo.WGS84, x, y, z, transects, cfg)
	if err != nil {
		return nil, err
	}

	if logging.Mode == logging.Performance {
		slog.Info("extracted profiles", "transects", len(res.Transects),
			"elapsed", time.Since(t), "memory", logging.MemString())
	}

	return formatProfiles(res), nil
}

// transectExtent returns the extent covered by the endpoints and midpoints
// of a set of transects.
func transectExtent(
	g geo.Geodesy, transects []profile.Transect, r int,
) (geo.Extent, error) {
	lons := make([]float64, 0, 3*len(transects))
	lats := make([]float64, 0, 3*len(transects))
	for _, t := range transects {
		midLat, midLon, _ := g.Direct(
			t.Source.Lat, t.Source.Lon, t.Azimuth, t.Range/2,
		)
		lons = append(lons, t.Source.Lon, midLon, t.Receiver.Lon)
		lats = append(lats, t.Source.Lat, midLat, t.Receiver.Lat)
	}
	return geo.Bounds(lons, lats, r)
}

func formatProfiles(res *profile.Result) []string {
	lines := []string{}
	if res.Filtered {
		lines = append(lines, fmt.Sprintf(
			"# The raster was filtered with a %d x %d mask.",
			res.MaskRows, res.MaskCols,
		))
	}
	for _, d := range res.Diagnostics {
		slog.Warn(d.Message, "transect", d.Transect, "kind", d.Kind.String())
		lines = append(lines, "# Warning: "+d.String())
	}

	var (
		ids                            []int
		azs, dists, lons, lats, depths []float64
	)
	for i, t := range res.Transects {
		lines = append(lines, fmt.Sprintf(
			"# Transect %d: azimuth %g, range %g m, %d samples, receiver %s",
			i, t.Azimuth, t.Range, t.Len(), t.Receiver,
		))
		for _, s := range t.Samples {
			ids = append(ids, i)
			azs = append(azs, t.Azimuth)
			dists = append(dists, s.Distance)
			lons = append(lons, s.Lon)
			lats = append(lats, s.Lat)
			depths = append(depths, s.Depth)
		}
	}

	order := []int{0, 1, 2, 3, 4, 5}
	sizes := []int{1, 1, 1, 1, 1, 1}
	lines = append(lines, catalog.CommentString(
		[]string{"Transect"},
		[]string{"Azimuth", "Distance", "Lon", "Lat", "Depth"},
		order, sizes,
	))
	return append(lines, catalog.FormatCols(
		[][]int{ids}, [][]float64{azs, dists, lons, lats, depths}, order,
	)...)
}
