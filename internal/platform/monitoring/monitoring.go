// Package monitoring reports errors, messages, breadcrumbs, and performance
// spans to Sentry.
//
// A Monitor built without a DSN, or with Disabled set, keeps the full API but
// drops every event locally, so callers never branch on whether monitoring is
// configured.
package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/rs/zerolog"
)

// Level mirrors the Sentry severity levels accepted by CaptureMessage.
type Level = sentry.Level

// Severity levels.
const (
	LevelDebug   = sentry.LevelDebug
	LevelInfo    = sentry.LevelInfo
	LevelWarning = sentry.LevelWarning
	LevelError   = sentry.LevelError
	LevelFatal   = sentry.LevelFatal
)

// Config configures New.
type Config struct {
	DSN         string
	Environment string
	Release     string
	// Disabled drops every event even when DSN is set.
	Disabled bool
	Debug    bool
	// TracesSampleRate is the share of StartSpan transactions sent; 0 disables
	// performance monitoring.
	TracesSampleRate float64
	// BeforeSend may inspect or drop events before they leave the process.
	BeforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
	Logger     *zerolog.Logger
}

// User identifies the person attached to subsequent events.
type User struct {
	ID       string
	Email    string
	Username string
}

// Monitor is a handle on one Sentry hub.
type Monitor struct {
	hub     *sentry.Hub
	enabled bool
	logger  zerolog.Logger
}

// New builds a Monitor. It returns an error only for a malformed DSN.
func New(cfg Config) (*Monitor, error) {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	m := &Monitor{logger: logger}
	if cfg.DSN == "" || cfg.Disabled {
		m.hub = sentry.NewHub(nil, sentry.NewScope())
		logger.Debug().Msg("monitoring disabled")
		return m, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Debug:            cfg.Debug,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		BeforeSend:       cfg.BeforeSend,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry client: %w", err)
	}
	m.hub = sentry.NewHub(client, sentry.NewScope())
	m.enabled = true
	logger.Info().Str("environment", cfg.Environment).Msg("monitoring enabled")
	return m, nil
}

// Enabled reports whether events leave the process.
func (m *Monitor) Enabled() bool {
	return m != nil && m.enabled
}

// hubFor returns the request hub stored by Middleware, falling back to the
// monitor hub.
func (m *Monitor) hubFor(ctx context.Context) *sentry.Hub {
	if ctx != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			return hub
		}
	}
	return m.hub
}

// CaptureException reports err and returns the event id, or "" when the event
// was dropped.
func (m *Monitor) CaptureException(ctx context.Context, err error) string {
	if m == nil || err == nil {
		return ""
	}
	return eventID(m.hubFor(ctx).CaptureException(err))
}

// CaptureMessage reports message at level.
func (m *Monitor) CaptureMessage(ctx context.Context, message string, level Level) string {
	if m == nil {
		return ""
	}
	hub := m.hubFor(ctx)
	var id *sentry.EventID
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		id = hub.CaptureMessage(message)
	})
	return eventID(id)
}

// AddBreadcrumb records a trail entry attached to later events.
func (m *Monitor) AddBreadcrumb(ctx context.Context, category, message string, data map[string]any) {
	if m == nil {
		return
	}
	m.hubFor(ctx).AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Data:      data,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	}, nil)
}

// SetTag sets an indexed tag on the current scope.
func (m *Monitor) SetTag(ctx context.Context, key, value string) {
	if m == nil {
		return
	}
	m.hubFor(ctx).Scope().SetTag(key, value)
}

// SetUser identifies the user on the current scope.
func (m *Monitor) SetUser(ctx context.Context, user User) {
	if m == nil {
		return
	}
	m.hubFor(ctx).Scope().SetUser(sentry.User{ID: user.ID, Email: user.Email, Username: user.Username})
}

// SetContext attaches a named block of structured values to the current scope.
func (m *Monitor) SetContext(ctx context.Context, key string, values map[string]any) {
	if m == nil {
		return
	}
	m.hubFor(ctx).Scope().SetContext(key, sentry.Context(values))
}

// StartSpan starts a performance transaction named name. Call the returned
// function to finish it.
func (m *Monitor) StartSpan(ctx context.Context, operation, name string) (context.Context, func()) {
	if m == nil {
		return ctx, func() {}
	}
	if sentry.GetHubFromContext(ctx) == nil {
		ctx = sentry.SetHubOnContext(ctx, m.hub)
	}
	span := sentry.StartSpan(ctx, operation, sentry.WithTransactionName(name))
	return span.Context(), span.Finish
}

// Flush waits up to timeout for buffered events to be sent.
func (m *Monitor) Flush(timeout time.Duration) bool {
	if !m.Enabled() {
		return true
	}
	return m.hub.Flush(timeout)
}

// Middleware attaches a per-request hub, recovers panics as captured events,
// and replies 500 after a panic.
func (m *Monitor) Middleware(next http.Handler) http.Handler {
	handler := sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := sentry.SetHubOnContext(r.Context(), m.hub.Clone())
		defer func() {
			if recovered := recover(); recovered != nil {
				m.logger.Error().Interface("panic", recovered).Str("path", r.URL.Path).Msg("request panicked")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		handler.ServeHTTP(w, r.WithContext(ctx))
	})
}

func eventID(id *sentry.EventID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}
