// Package logging builds the logger handed to every component.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	EnvLogLevel   = "SUBGRAPHCTL_LOG_LEVEL"
	EnvLogNoColor = "NO_COLOR"
	EnvLogJSON    = "SUBGRAPHCTL_LOG_JSON"
)

// Options configures New.
type Options struct {
	// Debug lowers the level to debug.
	Debug bool

	// Writer receives log output; nil means stderr.
	Writer io.Writer
}

// New returns a logger configured from opts and the environment.
// Environment level overrides win over Debug.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		level = lvl
	}

	json, _ := parseBool(os.Getenv(EnvLogJSON))
	if !json {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    noColor(w),
			TimeFormat: time.Kitchen,
		}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// noColor reports whether console output to w should be plain: NO_COLOR is
// set or w is not a terminal.
func noColor(w io.Writer) bool {
	if _, ok := os.LookupEnv(EnvLogNoColor); ok {
		return true
	}
	f, ok := w.(interface{ Fd() uintptr })
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
