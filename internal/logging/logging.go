// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures New. Output defaults to stderr.
type Options struct {
	Level  string
	File   string
	Output io.Writer
}

// New creates a JSON *slog.Logger tagged with app=kitroom, tees it into
// opts.File when set, and installs it as the slog default. The cleanup func
// closes the log file; callers must defer it.
func New(opts Options) (*slog.Logger, func(), error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{out}
	cleanup := func() {}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		cleanup = func() { _ = f.Close() }
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	logger := slog.New(handler).With("app", "kitroom")
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// ParseLevel is case-insensitive and falls back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
