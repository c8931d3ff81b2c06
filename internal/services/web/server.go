package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/launchpad/internal/platform/apiclient"
	"github.com/louisbranch/launchpad/internal/platform/config"
	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
	"github.com/louisbranch/launchpad/internal/platform/icons"
	"github.com/louisbranch/launchpad/internal/platform/logging"
	"github.com/louisbranch/launchpad/internal/platform/monitoring"
	"github.com/louisbranch/launchpad/internal/platform/timeouts"
	"github.com/louisbranch/launchpad/internal/services/web/routepath"
	"github.com/louisbranch/launchpad/internal/services/web/static"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// APIBaseURL is where the monitoring page sends probe requests; it
	// defaults to this server's own address.
	APIBaseURL string
	Env        config.AppEnv
	Logger     zerolog.Logger
	// Monitor defaults to a disabled monitor.
	Monitor    *monitoring.Monitor
	Registry   *prometheus.Registry
	HTTPClient *http.Client
	Now        func() time.Time
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     zerolog.Logger
}

type handler struct {
	env     config.AppEnv
	logger  zerolog.Logger
	monitor *monitoring.Monitor
	api     *apiclient.Client
	now     func() time.Time
}

// NewHandler builds the routed and middleware-wrapped web handler.
func NewHandler(cfg Config) (http.Handler, error) {
	monitor := cfg.Monitor
	if monitor == nil {
		var err error
		if monitor, err = monitoring.New(monitoring.Config{Disabled: true}); err != nil {
			return nil, fmt.Errorf("init monitor: %w", err)
		}
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	baseURL := strings.TrimSpace(cfg.APIBaseURL)
	if baseURL == "" {
		baseURL = selfURL(cfg.HTTPAddr)
	}
	logger := cfg.Logger
	// One attempt per monitoring action, so one captured event per click.
	api, err := apiclient.New(apiclient.Config{
		BaseURL:      baseURL,
		Timeout:      timeouts.UpstreamProbe,
		DisableRetry: true,
		Debug:        cfg.Env.IsDevelopment(),
		HTTPClient:   cfg.HTTPClient,
		Logger:       &logger,
		Metrics:      apiclient.NewMetrics(registry, "web"),
	})
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	h := &handler{
		env:     cfg.Env,
		logger:  cfg.Logger,
		monitor: monitor,
		api:     api,
		now:     now,
	}

	mux := http.NewServeMux()
	mux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS))))
	mux.Handle(routepath.IconSprite, icons.SpriteHandler())
	mux.Handle(routepath.Metrics, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc(routepath.APIHealth, h.handleHealth)
	mux.HandleFunc(routepath.APITestMonitoring, h.handleTestMonitoring)
	mux.Handle(routepath.LocaleSwitch, i18nhttp.SwitchHandler())
	mux.HandleFunc(routepath.Monitoring, h.handleMonitoring)
	mux.HandleFunc(routepath.Monitoring+"/", h.handleMonitoring)
	mux.HandleFunc(routepath.Root, h.handleHome)

	return httpx.Chain(mux,
		logging.Middleware(cfg.Logger),
		httpx.RequestID(),
		httpx.RecoverPanic(),
		monitor.Middleware,
		i18nhttp.Middleware,
	), nil
}

// NewServer builds a configured web server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
		cfg.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		logger: cfg.Logger,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info().Str("addr", s.httpAddr).Msg("web listening")
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	if err := s.httpServer.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("close http server")
	}
}

// selfURL turns a listen address such as ":8080" into a loopback base URL.
func selfURL(addr string) string {
	addr = strings.TrimSpace(addr)
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	if addr == "" {
		addr = "localhost"
	}
	return "http://" + addr
}
