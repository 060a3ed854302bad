/*package cmd contains code for running bathyprof in its various command line
modes */
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/phil-mansfield/bathyprof/logging"
	"github.com/phil-mansfield/bathyprof/parse"
	"github.com/phil-mansfield/bathyprof/version"
)

var ModeNames map[string]Mode = map[string]Mode{
	"classify": &ClassifyConfig{},
	"resample": &ResampleConfig{},
	"profile":  &ProfileConfig{},
}

// Mode represents the interface used by the main binary when interacting with
// a given command line mode.
type Mode interface {
	// ReadConfig reads a mode-specific config file and stores its contents
	// within the Mode. An empty fname sets every variable to its default.
	ReadConfig(fname string) error
	// ExampleConfig returns the text of an example config file of this mode.
	ExampleConfig() string
	// Run executes the mode. It takes a list of tokenized command line flags,
	// an initialized GlobalConfig struct, and a slice of lines representing the
	// contents of stdin. It will return a slice of lines that should be
	// written to stdout along with an error if one occurs.
	Run(flags []string, gConfig *GlobalConfig, stdin []string) ([]string, error)
}

// GlobalConfig is a config file used by every mode. It contains information on
// the raster that every mode reads from.
type GlobalConfig struct {
	Version string

	RasterType, RasterFile string
	XVar, YVar, ZVar       string

	Precision int64

	Logging, LogFormat string
	LogFlag            logging.Flag
}

var _ Mode = &GlobalConfig{}

// ReadConfig reads a config file and returns an error, if applicable.
func (config *GlobalConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("config")
	vars.String(&config.Version, "Version", version.SourceVersion)
	vars.String(&config.RasterType, "RasterType", "")
	vars.String(&config.RasterFile, "RasterFile", "")
	vars.String(&config.XVar, "XVar", "lon")
	vars.String(&config.YVar, "YVar", "lat")
	vars.String(&config.ZVar, "ZVar", "elevation")
	vars.Int(&config.Precision, "Precision", 12)
	vars.String(&config.Logging, "Logging", "nil")
	vars.String(&config.LogFormat, "LogFormat", "text")

	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

// validate checks that all the user-generated fields of GlobalConfig are
// properly set.
func (config *GlobalConfig) validate() error {
	err := version.Check(config.Version)
	if err != nil {
		return fmt.Errorf("The 'Version' variable is set to '%s', but %s",
			config.Version, err.Error())
	}

	config.RasterType = strings.ToLower(config.RasterType)
	switch config.RasterType {
	case "netcdf", "esri":
	case "":
		return fmt.Errorf("The 'RasterType' variable isn't set.")
	default:
		return fmt.Errorf("The 'RasterType' variable is set to '%s', "+
			"which I don't recognize.", config.RasterType)
	}

	if config.RasterFile == "" {
		return fmt.Errorf("The 'RasterFile' variable isn't set.")
	} else if err = validateFile(config.RasterFile); err != nil {
		return fmt.Errorf("The 'RasterFile' variable is set to '%s', but %s",
			config.RasterFile, err.Error())
	}

	if config.RasterType == "netcdf" &&
		(config.XVar == "" || config.YVar == "" || config.ZVar == "") {
		return fmt.Errorf("The 'XVar', 'YVar', and 'ZVar' variables must " +
			"all be set for NetCDF rasters.")
	}

	if config.Precision < 1 || config.Precision > 15 {
		return fmt.Errorf("The 'Precision' variable is set to %d, but it "+
			"must be between 1 and 15.", config.Precision)
	}

	if config.LogFlag, err = logging.ParseFlag(config.Logging); err != nil {
		return err
	}
	config.LogFormat = strings.ToLower(config.LogFormat)
	switch config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("The 'LogFormat' variable is set to '%s', but "+
			"the only valid values are 'text' and 'json'.", config.LogFormat)
	}

	return nil
}

// validateFile returns an error if there are any problems with the given
// file.
func validateFile(name string) error {
	if info, err := os.Stat(name); err != nil {
		return fmt.Errorf("%s does not exist.", name)
	} else if info.IsDir() {
		return fmt.Errorf("%s is a directory.", name)
	}
	return nil
}

// ExampleConfig returns an example configuration file.
func (config *GlobalConfig) ExampleConfig() string {
	return fmt.Sprintf(`[config]
# Target version of bathyprof. This option merely allows bathyprof to notice
# when its source and configuration files are not from the same version.
#
# This variable defaults to the source version if not included.
Version = %s

# RasterType is the format of the bathymetry raster. If your raster uses a
# format not included here, you can convert it with gdal_translate or
# implement a reader yourself (see the documentation of the io package).
# Supported RasterTypes:
# netcdf - NetCDF classic files, e.g. GEBCO or ETOPO grids.
# esri   - Esri ASCII grids (.asc).
RasterType = netcdf

# The file containing the raster.
RasterFile = path/to/gebco.nc

# The names of the longitude, latitude, and depth variables. Only used by
# NetCDF rasters. These default to lon, lat, and elevation.
XVar = lon
YVar = lat
ZVar = elevation

# Precision is the number of decimal digits that coordinates are rounded to
# before they're compared. Raise it if your raster has a very fine
# resolution, lower it if the coordinates in your file are noisy. Defaults
# to 12.
Precision = 12

# Logging controls what bathyprof reports about itself. Records are written
# to stderr.
# nil         - Only warnings.
# performance - Timings and memory usage.
# debug       - Everything.
Logging = nil

# LogFormat may be text or json.
LogFormat = text`, version.SourceVersion)
}

// Run is a dummy method which allows GlobalConfig to conform to the Mode
// interface for testing purposes.
func (config *GlobalConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	panic("GlobalConfig.Run() should never be executed.")
}
