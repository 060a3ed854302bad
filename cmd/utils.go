package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gonum/matrix/mat64"

	"github.com/phil-mansfield/bathyprof/geo"
	"github.com/phil-mansfield/bathyprof/io"
	"github.com/phil-mansfield/bathyprof/logging"
)

func getProvider(config *GlobalConfig) (io.Provider, error) {
	r := int(config.Precision)
	switch config.RasterType {
	case "netcdf":
		vars := io.NetCDFVars{X: config.XVar, Y: config.YVar, Z: config.ZVar}
		return io.NewNetCDF(config.RasterFile, vars, r)
	case "esri":
		return io.NewEsriASCII(config.RasterFile, r)
	}

	// Impossible, but worth doing anyway.
	return nil, fmt.Errorf(
		"RasterType '%s' not recognized.", config.RasterType,
	)
}

// readExtent reads the configured extent, or the whole raster if bounds is
// the zero Extent.
func readExtent(
	config *GlobalConfig, bounds geo.Extent,
) (x, y []float64, z *mat64.Dense, err error) {
	var t time.Time
	if logging.Mode == logging.Performance {
		t = time.Now()
	}

	p, err := getProvider(config)
	if err != nil {
		return nil, nil, nil, err
	}
	x, y, z, err = p.Fetch(bounds)
	if err != nil {
		return nil, nil, nil, err
	}

	slog.Debug("read raster", "file", config.RasterFile,
		"rows", len(y), "cols", len(x))
	if logging.Mode == logging.Performance {
		slog.Info("read raster", "file", config.RasterFile,
			"elapsed", time.Since(t), "memory", logging.MemString())
	}
	return x, y, z, nil
}

// checkExtent returns an error if an extent from a config file is only
// partially set or is upside down.
func checkExtent(e geo.Extent) error {
	if e == (geo.Extent{}) {
		return nil
	}
	if e.South >= e.North {
		return fmt.Errorf("'South' is set to %g and 'North' is set to %g, "+
			"but South must be less than North.", e.South, e.North)
	}
	if e.South < -90 || e.North > 90 {
		return fmt.Errorf("'South' and 'North' must be between -90 and 90, "+
			"but are %g and %g.", e.South, e.North)
	}
	if e.West == e.East {
		return fmt.Errorf("'West' and 'East' are both set to %g.", e.West)
	}
	return nil
}
