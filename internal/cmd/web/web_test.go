package web

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8086" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8086")
	}
	if cfg.APIBaseURL != "" {
		t.Fatalf("APIBaseURL = %q, want empty", cfg.APIBaseURL)
	}
}

func TestParseConfigReadsEnv(t *testing.T) {
	t.Parallel()

	lookup := func(key string) (string, bool) {
		if key == "LAUNCHPAD_WEB_HTTP_ADDR" {
			return " 0.0.0.0:9000 ", true
		}
		return "", false
	}
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, lookup)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:9000" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "0.0.0.0:9000")
	}
}

func TestParseConfigBlankEnvFallsBack(t *testing.T) {
	t.Parallel()

	lookup := func(string) (string, bool) { return "   ", true }
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, lookup)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8086" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8086")
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Parallel()

	lookup := func(string) (string, bool) { return "env:1", true }
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:9002", "-api-base-url", "http://api.local"}, lookup)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9002" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9002")
	}
	if cfg.APIBaseURL != "http://api.local" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(discard{})
	if _, err := ParseConfig(fs, []string{"-game-addr", "x"}, nil); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
