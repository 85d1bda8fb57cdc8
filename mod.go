// Package confidential defines the global logger and the metrics collectors
// shared by the packages of the confidential contract runtime.
package confidential

import (
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EnvLogLevel is the name of the environment variable to change the logging
// level.
const EnvLogLevel = "LLVL"

const defaultLevel = zerolog.InfoLevel

func init() {
	lvl := os.Getenv(EnvLogLevel)

	Logger = Logger.Level(ParseLevel(lvl))
}

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance. By default, it only prints
// info level logs, which can be changed with the LLVL environment variable.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger()

// PromCollectors exposes prometheus metrics. Packages append their collectors
// in their init function and the HTTP proxy registers all of them.
var PromCollectors []prometheus.Collector

// ParseLevel returns the zerolog level matching the string. It falls back to
// the info level when the string is empty or unknown.
func ParseLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "error":
		return zerolog.ErrorLevel
	case "warn":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	case "trace":
		return zerolog.TraceLevel
	case "none", "disabled":
		return zerolog.Disabled
	default:
		return defaultLevel
	}
}
