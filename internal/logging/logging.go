// Package logging sets up the process-wide slog logger and hands out
// component-scoped child loggers for the writer and reader.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Config selects the global logger's output shape and verbosity.
type Config struct {
	Format string // "json" | "text"
	Level  string // "debug" | "info" | "warn" | "error"
}

// Setup installs the global slog logger per cfg. Unset or unrecognized
// fields fall back to text output at info level.
func Setup(cfg Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
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

// Component returns a logger tagged with an arbitrary component name,
// for callers outside the writer/reader pair below.
func Component(name string) *slog.Logger {
	return slog.With("component", name)
}

// WriterLogger returns a logger scoped to one Writer instance, tagged
// with the file path it is publishing to.
func WriterLogger(path string) *slog.Logger {
	return slog.With("component", "writer", "path", path)
}

// ReaderLogger returns a logger scoped to one Reader instance, tagged
// with the file path it is scanning.
func ReaderLogger(path string) *slog.Logger {
	return slog.With("component", "reader", "path", path)
}
