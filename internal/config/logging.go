package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger on stderr at the given level.
// Unparseable levels fall back to info.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
