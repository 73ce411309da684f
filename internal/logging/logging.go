// Package logging centralizes the zerolog setup: component loggers,
// context propagation, and per-invocation trace IDs.
package logging

import (
	"context"
	"crypto/rand"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Output format names accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatAuto    = "auto"
)

// New builds the root logger. level defaults to info when unparseable.
// format selects console or JSON output; "auto" picks console when stderr
// is a terminal.
func New(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if useConsole(format) {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// ComponentLogger returns a child logger tagged with a component name, the
// field every log line in this codebase carries.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger carried by ctx, or a disabled logger when
// none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// NewTraceID generates a ULID identifying one command or request
// invocation across log lines.
func NewTraceID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// WithTraceID attaches a logger carrying trace_id to ctx.
func WithTraceID(ctx context.Context, logger zerolog.Logger) (context.Context, zerolog.Logger) {
	traced := logger.With().Str("trace_id", NewTraceID()).Logger()
	return traced.WithContext(ctx), traced
}

func useConsole(format string) bool {
	switch format {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}
