// Package log builds the hclog loggers shared by the CLI and the engine.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// EnvLevel overrides every other source of the log level.
const EnvLevel = "DROIDAUDIT_LOG_LEVEL"

// Options configures New.
type Options struct {
	Name   string
	Level  string
	JSON   bool
	Output io.Writer
}

// New creates a logger. The level is taken from EnvLevel when set, then from
// opts.Level, defaulting to WARN so normal runs only print the report.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	name := opts.Name
	if name == "" {
		name = "droidaudit"
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		Level:       determineLevel(opts.Level),
		JSONFormat:  opts.JSON,
		DisableTime: !opts.JSON,
		Output:      out,
	})
}

// OrNull returns l, or a logger that discards everything when l is nil.
func OrNull(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}

func determineLevel(configured string) hclog.Level {
	if env := os.Getenv(EnvLevel); env != "" {
		return ParseLevel(env)
	}
	if configured == "" {
		return hclog.Warn
	}
	return ParseLevel(configured)
}

// ParseLevel converts a level name to hclog.Level. Unknown names map to INFO.
func ParseLevel(s string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN", "WARNING":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		return hclog.Info
	}
}
