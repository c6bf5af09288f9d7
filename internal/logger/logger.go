// Package logger holds the process-wide structured logger. Diagnostics go
// to stderr so user-facing command output on stdout stays clean.
package logger

import (
	"log/slog"
	"os"
)

// Log is the shared logger. It defaults to warn level until Setup runs.
var Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelWarn,
}))

// Setup replaces the shared logger with one at the requested level. Levels
// are "debug", "info", "warn" and "error"; anything else means info.
func Setup(level string) {
	var l slog.Level

	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(Log)
}
