/*package logging controls what bathyprof reports about itself while it runs.
Data goes to stdout, so every log record goes to stderr.*/
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// This is handled this way so that GlobalConfig doesn't need to be literally
// every function in the project.
var (
	Mode Flag = Nil
)

func (f Flag) String() string {
	switch f {
	case Nil:
		return "nil"
	case Performance:
		return "performance"
	case Debug:
		return "debug"
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// ParseFlag converts the Logging variable of a config file into a Flag.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(s) {
	case "", "nil":
		return Nil, nil
	case "performance":
		return Performance, nil
	case "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf("Logging = '%s', but the only valid values "+
		"are 'nil', 'performance', and 'debug'.", s)
}

// Setup sets Mode and installs the default slog logger. Nil mode only lets
// warnings through, Performance adds info records, and Debug adds
// everything. format may be "text" or "json".
func Setup(mode Flag, format string) error {
	return SetupWriter(os.Stderr, mode, format)
}

// SetupWriter is Setup with the log records sent to w.
func SetupWriter(w io.Writer, mode Flag, format string) error {
	var lvl slog.Level
	switch mode {
	case Nil:
		lvl = slog.LevelWarn
	case Performance:
		lvl = slog.LevelInfo
	case Debug:
		lvl = slog.LevelDebug
	default:
		return fmt.Errorf("Unknown logging mode %d.", int(mode))
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("LogFormat = '%s', but the only valid values "+
			"are 'text' and 'json'.", format)
	}

	Mode = mode
	slog.SetDefault(slog.New(handler))
	return nil
}

// MemString returns a string containing various statistics on the current
// memory usage of bathyprof.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}
