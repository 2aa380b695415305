// Package logger builds the module's structured logger, grounded on
// the teacher's internal/logger: log/slog with a choice of json, text,
// or tint (colorized) handlers.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

var (
	// ErrInvalidLogLevel is returned for an unrecognized level string.
	ErrInvalidLogLevel = errors.New("logger: invalid log level")
	// ErrInvalidLogFormat is returned for an unrecognized format string.
	ErrInvalidLogFormat = errors.New("logger: invalid log format")
)

// New builds a *slog.Logger writing to w, in the given level ("DEBUG",
// "INFO", "WARN", "ERROR") and format ("json", "text", "tint").
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	slogLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel})), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})), nil
	case "tint", "":
		return slog.New(tint.NewHandler(w, &tint.Options{Level: slogLevel})), nil
	}

	return nil, errors.Join(ErrInvalidLogFormat, fmt.Errorf("log format: %s", format))
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	}

	return slog.LevelInfo, errors.Join(ErrInvalidLogLevel, fmt.Errorf("log level: %s", level))
}
