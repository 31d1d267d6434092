package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/diogo/chatmate/internal/config"
)

// newLogger writes text records to w. One-shot commands only surface
// warnings and errors unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newInfoLogger is used by long-running commands that report each request.
func newInfoLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// newFileLogger opens the diagnostic log used while the TUI owns the
// terminal. When the log cannot be opened diagnostics are discarded.
func newFileLogger(cfg config.Config) (*slog.Logger, func()) {
	noop := func() {}

	if _, err := config.EnsureConfigDir(); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), noop
	}
	path, err := config.GetLogPath()
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), noop
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), noop
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }
}
