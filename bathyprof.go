/*package bathyprof extracts depth profiles along geodesic transects from
gridded bathymetry rasters.*/
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/phil-mansfield/bathyprof/cmd"
	"github.com/phil-mansfield/bathyprof/logging"
	"github.com/phil-mansfield/bathyprof/version"
)

var helpStrings = map[string]string{
	"classify": `The classify mode reports whether a set of points forms a regular
longitude-latitude grid. Points can be piped in as "lon lat" lines, otherwise
the raster named in the global config file is classified. One line is printed
with the shape of the grid, whether it is a grid, its extent, and the smallest
and largest steps along each axis.`,
	"resample": `The resample mode moves the raster onto a coarser or finer grid
with the same north-west corner. Coarser grids are low-pass filtered first.
One "lon lat depth" line is printed for each node of the new grid.`,
	"profile": `The profile mode samples the raster along geodesics leaving a
source point. One "transect azimuth distance lon lat depth" line is printed for
each sample. If the samples are coarser than the raster, the raster is
low-pass filtered first.`,

	"config":          new(cmd.GlobalConfig).ExampleConfig(),
	"classify.config": cmd.ModeNames["classify"].ExampleConfig(),
	"resample.config": cmd.ModeNames["resample"].ExampleConfig(),
	"profile.config":  cmd.ModeNames["profile"].ExampleConfig(),
}

var modeDescriptions = `My help modes are:
bathyprof help
bathyprof help [ classify | resample | profile ]
bathyprof help [ config | classify.config | resample.config | profile.config ]

My analysis modes are:
bathyprof classify [flags] ____.config [____.classify.config]
bathyprof resample [flags] ____.config [____.resample.config]
bathyprof profile  [flags] ____.config [____.profile.config]

Flags take the form --Variable value and override the variables of the mode's
config file, e.g. --Azimuths 0 90 180 270.`

func main() {
	args := os.Args
	if len(args) <= 1 {
		fmt.Fprintf(
			os.Stderr, "I was not supplied with a mode.\nFor help, type "+
				"'./bathyprof help'.\n",
		)
		os.Exit(1)
	}

	if args[1] == "help" {
		switch len(args) - 2 {
		case 0:
			fmt.Println(modeDescriptions)
		case 1:
			text, ok := helpStrings[args[2]]
			if !ok {
				fmt.Printf("I don't recognize the help target '%s'\n", args[2])
			} else {
				fmt.Println(text)
			}
		default:
			fmt.Println("The help mode can only take a single argument.")
		}
		os.Exit(0)
	} else if args[1] == "version" {
		fmt.Printf("bathyprof version %s\n", version.SourceVersion)
		os.Exit(0)
	}

	mode, ok := cmd.ModeNames[args[1]]
	if !ok {
		fmt.Fprintf(
			os.Stderr, "You passed me the mode '%s', which I don't "+
				"recognize.\nFor help, type './bathyprof help'\n", args[1],
		)
		os.Exit(1)
	}

	var lines []string
	if args[1] == "classify" && !isTerminal(os.Stdin) {
		var err error
		lines, err = stdinLines()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}

	flags := getFlags(args)
	config, ok := getConfig(args)
	gConfig, err := getGlobalConfig(args)
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}
	if err = logging.Setup(gConfig.LogFlag, gConfig.LogFormat); err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	if !ok {
		config = ""
	}
	if err = mode.ReadConfig(config); err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	out, err := mode.Run(flags, gConfig, lines)
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	for i := range out {
		fmt.Println(out[i])
	}
}

// isTerminal returns true if f is a character device rather than a pipe or
// a file.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// stdinLines reads stdin and splits it into lines.
func stdinLines() ([]string, error) {
	bs, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("Error reading stdin: %s.", err.Error())
	}
	lines := strings.Split(string(bs), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// getFlags returns the flag tokens from the command line arguments.
func getFlags(args []string) []string {
	return args[2 : len(args)-configNum(args)]
}

// getGlobalConfig reads the global config file, which is either named by
// $BATHYPROF_GLOBAL_CONFIG or is the first config file in the command line
// arguments.
func getGlobalConfig(args []string) (*cmd.GlobalConfig, error) {
	name := os.Getenv("BATHYPROF_GLOBAL_CONFIG")
	if name != "" {
		if configNum(args) > 1 {
			return nil, fmt.Errorf("$BATHYPROF_GLOBAL_CONFIG has been " +
				"set, so you may only pass a single config file as a " +
				"parameter.")
		}
	} else {
		switch configNum(args) {
		case 0:
			return nil, fmt.Errorf("No config files provided in command " +
				"line arguments.")
		case 1:
			name = args[len(args)-1]
		case 2:
			name = args[len(args)-2]
		default:
			return nil, fmt.Errorf("Passed too many config files as arguments.")
		}
	}

	config := &cmd.GlobalConfig{}
	if err := config.ReadConfig(name); err != nil {
		return nil, err
	}
	return config, nil
}

// getConfig returns the name of the mode-specific config file from the
// command line arguments.
func getConfig(args []string) (string, bool) {
	global := os.Getenv("BATHYPROF_GLOBAL_CONFIG") != ""
	if (global && configNum(args) == 1) || (!global && configNum(args) == 2) {
		return args[len(args)-1], true
	}
	return "", false
}

// configNum returns the number of configuration files at the end of the
// argument list.
func configNum(args []string) int {
	num := 0
	for i := len(args) - 1; i >= 2; i-- {
		if !isConfig(args[i]) {
			break
		}
		num++
	}
	return num
}

// isConfig returns true if the given string is a config file name.
func isConfig(s string) bool {
	return strings.HasSuffix(s, ".config")
}
