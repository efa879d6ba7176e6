// Package logger builds the slog loggers used across product-scout.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates the root logger for the given level and format, writing
// to stderr. See ParseLevel for accepted levels; format is "json" or
// "text" (default "text").
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a logger writing to w. Tests use it to capture
// output.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Component returns a child logger tagged with a subsystem name, so
// engine, scheduler, and catalog lines are distinguishable in
// aggregated output.
func Component(log *slog.Logger, name string) *slog.Logger {
	return log.With("component", name)
}

// ParseLevel converts a level string to slog.Level. Accepted in any
// case: "debug", "info", "warn", "warning", "error". Anything else
// falls back to LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
