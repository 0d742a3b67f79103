// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logger := logging.Setup(cfg.LogLevel)        // stderr, installed as slog default
//	logger := logging.New(w, slog.LevelDebug, true) // any writer, without colors
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup builds a colored stderr logger at level and installs it as the
// slog default.
func Setup(level slog.Level) *slog.Logger {
	logger := New(os.Stderr, level, false)
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger writing to w. Source locations are added at
// debug level only.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    noColor,
	}))
}

// Component returns a child of logger tagged with a component name.
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}
