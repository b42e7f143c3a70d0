// Package logging builds the process-wide structured logger. fridgekeep
// emits JSON to stderr; an optional file tee keeps a local copy, which is
// how logs are pulled off the appliance when there is no log shipper.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New creates a *slog.Logger and installs it as the slog default so
// package-level slog calls land in the same place. The returned cleanup
// closes the tee file if one was opened; callers must defer it.
func New(level, logFile string) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	cleanup := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		cleanup = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: Level(level)}))
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// Level maps a LOG_LEVEL config string to a slog level. Unrecognized values
// fall back to info rather than failing startup.
func Level(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
