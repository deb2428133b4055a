package main

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the process logger. format is "json" or "console".
func newLogger(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "assemblyd").Logger()
}

// httpLogLevel maps a zerolog level name onto the HTTP layer's coarser levels.
func httpLogLevel(level string) string {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return "debug"
	case "info":
		return "info"
	case "warn", "error", "fatal", "panic":
		return "error"
	default:
		return "off"
	}
}
