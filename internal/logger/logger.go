// Package logger owns the process wide slog logger.
package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger

// Init installs the default logger: readable text at debug level in
// development, JSON at info level everywhere else.
func Init(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		opts.AddSource = true
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
	return log
}

// Get returns the logger set by Init, initialising a development logger on
// first use.
func Get() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// Fatal logs at error level and exits.
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}
