package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/louisbranch/launchpad/internal/platform/apiclient"
	"github.com/louisbranch/launchpad/internal/platform/config"
	"github.com/louisbranch/launchpad/internal/platform/debounce"
	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
	"github.com/louisbranch/launchpad/internal/platform/icons"
	"github.com/louisbranch/launchpad/internal/platform/logging"
	"github.com/louisbranch/launchpad/internal/platform/monitoring"
	"github.com/louisbranch/launchpad/internal/platform/timefmt"
	"github.com/louisbranch/launchpad/internal/platform/timeouts"
	"github.com/louisbranch/launchpad/internal/services/admin/routepath"
	"github.com/louisbranch/launchpad/internal/services/admin/storage"
	adminsqlite "github.com/louisbranch/launchpad/internal/services/admin/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// adminServerEnv captures startup defaults for the admin process.
type adminServerEnv struct {
	DBPath string `env:"LAUNCHPAD_ADMIN_DB_PATH"`
}

// DefaultDBPath resolves the SQLite path from LAUNCHPAD_ADMIN_DB_PATH or
// data/admin.db.
func DefaultDBPath() string {
	var cfg adminServerEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		return filepath.Join("data", "admin.db")
	}
	return cfg.DBPath
}

// Config defines the inputs for the admin process.
type Config struct {
	HTTPAddr string
	DBPath   string
	// APIBaseURL is the upstream API probed by the dashboard. Empty shows the
	// panel as unconfigured.
	APIBaseURL string
	Env        config.AppEnv
	Logger     zerolog.Logger
	Monitor    *monitoring.Monitor
	Registry   *prometheus.Registry
	// Store replaces the SQLite store opened from DBPath.
	Store      storage.Store
	HTTPClient *http.Client
	Clock      clock.Clock
	// SettleDelay is how long the counter must stay unchanged before the
	// value gauge updates.
	SettleDelay time.Duration
	// TimeZone is the IANA zone dates are shown in. Empty means UTC.
	TimeZone string
}

// Server hosts the admin dashboard.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	handler    *handler
	store      storage.Store
	ownsStore  bool
	logger     zerolog.Logger
}

type handler struct {
	store    storage.Store
	upstream *apiclient.Client
	logger   zerolog.Logger
	clock    clock.Clock
	timeZone string
	metrics  *counterMetrics
	settle   *debounce.Func[storage.Counter]
}

func newHandler(cfg Config) (*handler, http.Handler, error) {
	if cfg.Store == nil {
		return nil, nil, errors.New("store is required")
	}
	monitor := cfg.Monitor
	if monitor == nil {
		var err error
		if monitor, err = monitoring.New(monitoring.Config{Disabled: true}); err != nil {
			return nil, nil, fmt.Errorf("init monitor: %w", err)
		}
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.WallClock
	}

	if _, err := timefmt.In(time.Time{}, cfg.TimeZone); err != nil {
		return nil, nil, err
	}

	h := &handler{
		store:    cfg.Store,
		logger:   cfg.Logger,
		clock:    clk,
		timeZone: cfg.TimeZone,
		metrics:  newCounterMetrics(registry),
	}
	h.settle = debounce.NewFunc(h.counterSettled, cfg.SettleDelay, clk)

	if baseURL := strings.TrimSpace(cfg.APIBaseURL); baseURL != "" {
		logger := cfg.Logger
		upstream, err := apiclient.New(apiclient.Config{
			BaseURL:      baseURL,
			Timeout:      timeouts.UpstreamProbe,
			DisableRetry: true,
			Debug:        cfg.Env.IsDevelopment(),
			HTTPClient:   cfg.HTTPClient,
			Clock:        clk,
			Logger:       &logger,
			Metrics:      apiclient.NewMetrics(registry, "admin"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init upstream client: %w", err)
		}
		h.upstream = upstream
	}

	mux := http.NewServeMux()
	mux.Handle(routepath.IconSprite, icons.SpriteHandler())
	mux.Handle(routepath.Metrics, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc(routepath.APIHealth, h.handleHealth)
	mux.Handle(routepath.LocaleSwitch, i18nhttp.SwitchHandler())
	mux.HandleFunc(routepath.DashboardCounter, h.handleCounter)
	mux.HandleFunc(routepath.Dashboard, h.handleDashboard)
	mux.HandleFunc(routepath.Dashboard+"/", h.handleDashboard)
	mux.HandleFunc(routepath.Root, h.handleHome)

	return h, httpx.Chain(mux,
		logging.Middleware(cfg.Logger),
		httpx.RequestID(),
		httpx.RecoverPanic(),
		monitor.Middleware,
		i18nhttp.Middleware,
	), nil
}

// NewHandler builds the routed and middleware-wrapped admin handler around
// cfg.Store.
func NewHandler(cfg Config) (http.Handler, error) {
	_, handler, err := newHandler(cfg)
	return handler, err
}

// NewServer builds a configured admin server, opening the SQLite store when
// cfg.Store is nil.
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

	ownsStore := false
	if cfg.Store == nil {
		store, err := openStore(ctx, cfg.DBPath, cfg.Logger)
		if err != nil {
			return nil, err
		}
		cfg.Store = store
		ownsStore = true
	}

	h, handler, err := newHandler(cfg)
	if err != nil {
		if ownsStore {
			_ = cfg.Store.Close()
		}
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		handler:   h,
		store:     cfg.Store,
		ownsStore: ownsStore,
		logger:    cfg.Logger,
	}, nil
}

func openStore(ctx context.Context, path string, logger zerolog.Logger) (*adminsqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultDBPath()
	}
	if dir := filepath.Dir(filepath.Clean(path)); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := adminsqlite.Open(ctx, path, logger)
	if err != nil {
		return nil, fmt.Errorf("open admin store: %w", err)
	}
	return store, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	s.logger.Info().Str("addr", s.httpAddr).Msg("admin listening")
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

// Close settles any pending counter update and closes the store it opened.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.handler != nil {
		s.handler.settle.Flush()
	}
	if s.ownsStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close admin store")
		}
	}
}
