package web

import (
	"context"
	"flag"
	"fmt"
	"strings"

	platformcmd "github.com/louisbranch/launchpad/internal/platform/cmd"
	"github.com/louisbranch/launchpad/internal/platform/discovery"
	"github.com/louisbranch/launchpad/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr string
	// APIBaseURL overrides where the monitoring page sends probe requests.
	APIBaseURL string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		HTTPAddr: envOrDefault(lookup, []string{"LAUNCHPAD_WEB_HTTP_ADDR"}, discovery.DefaultHTTPAddr(discovery.ServiceWeb)),
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Base URL for monitoring probe requests (default: this server)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceWeb, func(ctx context.Context, rt platformcmd.Runtime) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:   cfg.HTTPAddr,
			APIBaseURL: cfg.APIBaseURL,
			Env:        rt.Env,
			Logger:     rt.Logger,
			Monitor:    rt.Monitor,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
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
