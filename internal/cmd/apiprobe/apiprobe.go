// Package apiprobe issues one request through the retrying API client and
// prints the response or the normalized failure.
package apiprobe

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/louisbranch/launchpad/internal/platform/apiclient"
	platformcmd "github.com/louisbranch/launchpad/internal/platform/cmd"
	"github.com/louisbranch/launchpad/internal/platform/discovery"
	"github.com/louisbranch/launchpad/internal/platform/timefmt"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by -format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrRequestFailed reports that the probed request ended in a normalized
// error, which has already been printed.
var ErrRequestFailed = errors.New("request failed")

// Config holds the apiprobe command configuration.
type Config struct {
	// BaseURL defaults to API_URL, then APP_URL + "/api", then the local API.
	BaseURL string
	Method  string
	Path    string
	Data    string
	NoRetry bool
	Format  string
	// Token is sent as a bearer Authorization header when set.
	Token string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		BaseURL: envOrDefault(lookup, []string{"LAUNCHPAD_APIPROBE_BASE_URL"}, ""),
		Method:  http.MethodGet,
		Path:    "health",
		Format:  FormatJSON,
		Token:   envOrDefault(lookup, []string{"LAUNCHPAD_APIPROBE_TOKEN"}, ""),
	}

	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "API base URL")
	fs.StringVar(&cfg.Method, "method", cfg.Method, "HTTP method")
	fs.StringVar(&cfg.Path, "path", cfg.Path, "request path relative to the base URL")
	fs.StringVar(&cfg.Data, "data", cfg.Data, "JSON request body")
	fs.BoolVar(&cfg.NoRetry, "no-retry", cfg.NoRetry, "fail on the first error instead of retrying")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: json or yaml")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "bearer token for the Authorization header")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	switch cfg.Format {
	case FormatJSON, FormatYAML:
	default:
		return Config{}, fmt.Errorf("unknown format %q", cfg.Format)
	}
	if cfg.Data != "" && !json.Valid([]byte(cfg.Data)) {
		return Config{}, errors.New("-data must be valid JSON")
	}
	return cfg, nil
}

// Run probes the configured endpoint, writing the result to out and client
// logs to stderr.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	options := platformcmd.RunOptions{LogOutput: os.Stderr}
	return platformcmd.RunWithTelemetryAndOptions(ctx, platformcmd.ServiceAPIProbe, options, func(ctx context.Context, rt platformcmd.Runtime) error {
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = rt.Env.APIBaseURL(discovery.DefaultAPIBaseURL())
		}
		client, err := newClient(cfg, baseURL, rt.Logger, rt.Env.IsDevelopment())
		if err != nil {
			return err
		}
		return execute(ctx, client, cfg, out)
	})
}

func newClient(cfg Config, baseURL string, logger zerolog.Logger, debug bool) (*apiclient.Client, error) {
	var hooks []apiclient.RequestHook
	if cfg.Token != "" {
		token := cfg.Token
		hooks = append(hooks, apiclient.BearerToken(func(context.Context) string { return token }))
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:      baseURL,
		DisableRetry: cfg.NoRetry,
		Debug:        debug,
		Logger:       &logger,
		Hooks:        hooks,
	})
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	return client, nil
}

// result is the printed outcome of one probe.
type result struct {
	OK         bool   `json:"ok" yaml:"ok"`
	StatusCode int    `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Retries    int    `json:"retries" yaml:"retries"`
	Data       any    `json:"data,omitempty" yaml:"data,omitempty"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Kind       string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Size       string `json:"size,omitempty" yaml:"size,omitempty"`
}

func execute(ctx context.Context, client *apiclient.Client, cfg Config, out io.Writer) error {
	req := apiclient.Request{Method: cfg.Method, Path: cfg.Path}
	if cfg.Data != "" {
		req.Body = json.RawMessage(cfg.Data)
	}

	resp, err := client.Do(ctx, req)
	if err != nil {
		apiErr, ok := apiclient.AsError(err)
		if !ok {
			return err
		}
		if writeErr := write(out, cfg.Format, result{
			StatusCode: apiErr.StatusCode,
			Retries:    apiErr.Retries,
			Data:       apiErr.Data,
			Message:    apiErr.Message,
			Kind:       string(apiErr.Kind),
		}); writeErr != nil {
			return writeErr
		}
		return ErrRequestFailed
	}

	var data any
	if err := resp.Decode(&data); err != nil {
		data = string(resp.Body)
	}
	return write(out, cfg.Format, result{
		OK:         true,
		StatusCode: resp.StatusCode,
		Retries:    resp.Retries,
		Data:       data,
		Size:       timefmt.Bytes(uint64(len(resp.Body))),
	})
}

func write(out io.Writer, format string, value result) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
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
