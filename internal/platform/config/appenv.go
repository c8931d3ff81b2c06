package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Application environments accepted in APP_ENV.
const (
	EnvTest        = "test"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const arcjetKeyPrefix = "ajkey_"

// TrueFlag is true only when the raw variable is exactly "true"; any other
// value, including "1" or "TRUE", reads as false.
type TrueFlag bool

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *TrueFlag) UnmarshalText(text []byte) error {
	*f = TrueFlag(string(text) == "true")
	return nil
}

// AppEnv is the schema of application variables shared by every service.
// Every value is optional; set values must be well formed or startup fails.
type AppEnv struct {
	// Server-only values.
	ArcjetKey          string `env:"ARCJET_KEY"`
	SentryOrganization string `env:"SENTRY_ORGANIZATION"`
	SentryProject      string `env:"SENTRY_PROJECT"`
	SentryAuthToken    string `env:"SENTRY_AUTH_TOKEN"`

	// Public values.
	AppURL                   string   `env:"APP_URL"`
	APIURL                   string   `env:"API_URL"`
	SentryDSN                string   `env:"SENTRY_DSN"`
	SentryDisabled           TrueFlag `env:"SENTRY_DISABLED"`
	BetterStackSourceToken   string   `env:"BETTER_STACK_SOURCE_TOKEN"`
	BetterStackIngestingHost string   `env:"BETTER_STACK_INGESTING_HOST"`
	PostHogKey               string   `env:"POSTHOG_KEY"`
	PostHogHost              string   `env:"POSTHOG_HOST"`

	// Shared values.
	Environment string `env:"APP_ENV"`
}

// LoadAppEnv parses and validates AppEnv from the process environment.
func LoadAppEnv() (AppEnv, error) {
	var cfg AppEnv
	if err := ParseEnv(&cfg); err != nil {
		return AppEnv{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppEnv{}, err
	}
	return cfg, nil
}

// LoadAppEnvFrom parses and validates AppEnv from environ.
func LoadAppEnvFrom(environ map[string]string) (AppEnv, error) {
	var cfg AppEnv
	if err := ParseEnvFrom(&cfg, environ); err != nil {
		return AppEnv{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppEnv{}, err
	}
	return cfg, nil
}

// Validate reports every malformed value at once.
func (e AppEnv) Validate() error {
	var errs []error
	if e.ArcjetKey != "" && !strings.HasPrefix(e.ArcjetKey, arcjetKeyPrefix) {
		errs = append(errs, fmt.Errorf("ARCJET_KEY: must start with %q", arcjetKeyPrefix))
	}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"APP_URL", e.AppURL},
		{"API_URL", e.APIURL},
		{"SENTRY_DSN", e.SentryDSN},
		{"POSTHOG_HOST", e.PostHogHost},
	} {
		if err := validateURL(field.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field.name, err))
		}
	}
	switch e.Environment {
	case "", EnvTest, EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("APP_ENV: %q is not one of test, development, production", e.Environment))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment reports whether APP_ENV selects development behavior.
func (e AppEnv) IsDevelopment() bool {
	return e.Environment == EnvDevelopment
}

// MonitoringEnabled reports whether a monitoring DSN is set and not disabled.
func (e AppEnv) MonitoringEnabled() bool {
	return e.SentryDSN != "" && !bool(e.SentryDisabled)
}

// APIBaseURL resolves the API client base URL: API_URL, then APP_URL + "/api",
// then fallback.
func (e AppEnv) APIBaseURL(fallback string) string {
	if e.APIURL != "" {
		return e.APIURL
	}
	if e.AppURL != "" {
		return strings.TrimSuffix(e.AppURL, "/") + "/api"
	}
	return fallback
}

// Lookup adapts os.LookupEnv for command config parsing.
func Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func validateURL(value string) error {
	if value == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}
