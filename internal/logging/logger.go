// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/vietddude/stylelog"
)

// Setup installs a default logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Reports go to stdout, so callers normally pass os.Stderr here. Text logs
// on os.Stderr use stylelog, which adds source to error records.
func Setup(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &tint.Options{
		Level:      lvl,
		TimeFormat: time.RFC3339,
	}

	var handler slog.Handler
	switch {
	case strings.ToLower(format) == "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	case w == io.Writer(os.Stderr):
		return stylelog.InitDefault(opts)
	default:
		handler = tint.NewHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string log level to slog.Level.
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
