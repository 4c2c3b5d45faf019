// Package logger provides the zerolog-based JSON logger shared by the service.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger so the application can add helpers without
// touching the upstream type. All zerolog methods are available directly.
type Logger struct {
	zerolog.Logger
}

// New returns a JSON logger writing to stdout, tagged with the service role.
func New(role string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("service", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
