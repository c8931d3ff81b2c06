// Package logging builds the structured loggers shared by every service.
//
// Development output is human readable on the console; every other
// environment emits one JSON object per line so log shippers can index the
// fields attached by callers.
package logging

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/louisbranch/launchpad/internal/platform/config"
)

// Options configures New.
type Options struct {
	Service     string
	Environment string
	// Level overrides the environment default when set.
	Level string
	// Output defaults to stderr.
	Output io.Writer
}

// New returns a logger tagged with the service name. Development defaults to
// debug level, everything else to info.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Environment == config.EnvDevelopment {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level := zerolog.InfoLevel
	if opts.Environment == config.EnvDevelopment {
		level = zerolog.DebugLevel
	}
	if opts.Level != "" {
		if parsed, err := zerolog.ParseLevel(opts.Level); err == nil {
			level = parsed
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Service != "" {
		logger = logger.Str("service", opts.Service)
	}
	if opts.Environment != "" {
		logger = logger.Str("env", opts.Environment)
	}
	return logger.Logger()
}

// Middleware attaches logger to each request context and writes one access
// line per request.
func Middleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		event := hlog.FromRequest(r).Info()
		if status >= http.StatusInternalServerError {
			event = hlog.FromRequest(r).Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	return func(next http.Handler) http.Handler {
		return hlog.NewHandler(logger)(access(next))
	}
}

// FromRequest returns the request-scoped logger, or a disabled logger when
// none is attached.
func FromRequest(r *http.Request) *zerolog.Logger {
	return hlog.FromRequest(r)
}
