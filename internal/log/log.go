// Package log provides structured logging for tryon-ar.
// It wraps zerolog with sensible defaults for production use.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger zerolog.Logger
	once   sync.Once
)

// Init initializes the global logger with the specified level.
// Valid levels: "debug", "info", "warn", "error"
func Init(level string) {
	once.Do(func() {
		lvl, err := zerolog.ParseLevel(level)
		if err != nil || level == "" {
			lvl = zerolog.InfoLevel
		}

		// Use JSON in production, console in development
		var out io.Writer = os.Stdout
		if os.Getenv("GO_ENV") != "production" {
			out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
		}
		logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	})
}

// L returns the global logger instance.
func L() *zerolog.Logger {
	Init("info")
	return &logger
}

// Debug logs at debug level. kv is a flat list of key/value pairs.
func Debug(msg string, kv ...any) {
	L().Debug().Fields(kv).Msg(msg)
}

// Info logs at info level.
func Info(msg string, kv ...any) {
	L().Info().Fields(kv).Msg(msg)
}

// Warn logs at warn level.
func Warn(msg string, kv ...any) {
	L().Warn().Fields(kv).Msg(msg)
}

// Error logs at error level.
func Error(msg string, err error, kv ...any) {
	L().Error().Err(err).Fields(kv).Msg(msg)
}

// With returns a child logger carrying the given key/value pairs.
func With(kv ...any) zerolog.Logger {
	return L().With().Fields(kv).Logger()
}
