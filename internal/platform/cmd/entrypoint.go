package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/launchpad/internal/platform/config"
	"github.com/louisbranch/launchpad/internal/platform/discovery"
	"github.com/louisbranch/launchpad/internal/platform/logging"
	"github.com/louisbranch/launchpad/internal/platform/monitoring"
	"github.com/louisbranch/launchpad/internal/platform/otel"
	"github.com/louisbranch/launchpad/internal/platform/timeouts"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// Service identifiers for command startup telemetry and CLI naming consistency.
const (
	ServiceAdmin    = discovery.ServiceAdmin
	ServiceAPIProbe = discovery.ServiceAPIProbe
	ServiceWeb      = discovery.ServiceWeb
)

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	// LogOutput overrides where the service logger writes.
	LogOutput io.Writer
	// Release tags monitoring events.
	Release string
}

// Runtime carries the process-wide collaborators built before a service runs.
type Runtime struct {
	Env     config.AppEnv
	Logger  zerolog.Logger
	Monitor *monitoring.Monitor
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry validates the application environment, configures logging,
// monitoring, and tracing, and executes a service run loop.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context, Runtime) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions is RunWithTelemetry with explicit options.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context, Runtime) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	appEnv, err := config.LoadAppEnv()
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{
		Service:     service,
		Environment: appEnv.Environment,
		Output:      options.LogOutput,
	})

	monitor, err := monitoring.New(monitoring.Config{
		DSN:              appEnv.SentryDSN,
		Disabled:         bool(appEnv.SentryDisabled),
		Environment:      appEnv.Environment,
		Release:          options.Release,
		Debug:            appEnv.IsDevelopment(),
		TracesSampleRate: 1,
		Logger:           &logger,
	})
	if err != nil {
		return err
	}
	defer monitor.Flush(timeouts.MonitoringFlush)

	otelCfg, err := otel.LoadConfig()
	if err != nil {
		return err
	}
	shutdown, err := otel.Setup(ctx, service, otelCfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = defaultOTelShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("otel shutdown")
		}
	}()

	return run(ctx, Runtime{Env: appEnv, Logger: logger, Monitor: monitor})
}
