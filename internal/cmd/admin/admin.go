package admin

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	platformcmd "github.com/louisbranch/launchpad/internal/platform/cmd"
	"github.com/louisbranch/launchpad/internal/platform/discovery"
	"github.com/louisbranch/launchpad/internal/services/admin"
)

var defaultDBPath = filepath.Join("data", "admin.db")

// Config holds the admin command configuration.
type Config struct {
	HTTPAddr string
	DBPath   string
	// APIBaseURL overrides the upstream API resolved from API_URL or APP_URL.
	APIBaseURL string
	TimeZone   string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		HTTPAddr: envOrDefault(lookup, []string{"LAUNCHPAD_ADMIN_HTTP_ADDR"}, discovery.DefaultHTTPAddr(discovery.ServiceAdmin)),
		DBPath:   envOrDefault(lookup, []string{"LAUNCHPAD_ADMIN_DB_PATH"}, defaultDBPath),
		TimeZone: envOrDefault(lookup, []string{"LAUNCHPAD_ADMIN_TIMEZONE"}, "UTC"),
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to sqlite database")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "upstream API base URL (default: API_URL, then APP_URL/api)")
	fs.StringVar(&cfg.TimeZone, "timezone", cfg.TimeZone, "IANA time zone for dashboard dates")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Run starts the admin server.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAdmin, func(ctx context.Context, rt platformcmd.Runtime) error {
		apiBaseURL := cfg.APIBaseURL
		if apiBaseURL == "" {
			apiBaseURL = rt.Env.APIBaseURL("")
		}
		server, err := admin.NewServer(ctx, admin.Config{
			HTTPAddr:   cfg.HTTPAddr,
			DBPath:     cfg.DBPath,
			APIBaseURL: apiBaseURL,
			TimeZone:   cfg.TimeZone,
			Env:        rt.Env,
			Logger:     rt.Logger,
			Monitor:    rt.Monitor,
		})
		if err != nil {
			return fmt.Errorf("init admin server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	})
}

func envOrDefault(lookup EnvLookup, keys []string, fallback string) string {
	for _, key := range keys {
		if lookup == nil {
			break
		}
		value, ok := lookup(key)
		if ok {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}
