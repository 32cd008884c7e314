// Package logging installs a colored tint handler as the default slog logger.
//
//	logging.Setup()                               // level from LOG_LEVEL
//	logging.SetupWithLevel(logging.ParseLevel(s))  // level from config
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures logging at the level from LOG_LEVEL (default: info).
func Setup() {
	SetupWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	)
}

// ParseLevel understands debug, info, warn and error. Anything else is info.
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
