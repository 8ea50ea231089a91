// Package logger constructs the zerolog logger used for progress and
// per-file error reporting.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a console logger on stderr. With quiet set, only errors are
// emitted. Key material and file contents are never logged.
func New(quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.ErrorLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
