// Package log provides the shared zerolog bootstrap for both binaries.
package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a service-tagged logger writing to w. An unknown level
// string falls back to info.
func New(service, level string, w io.Writer) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}
