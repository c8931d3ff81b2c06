package apiprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/louisbranch/launchpad/internal/platform/apiclient"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("apiprobe", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func testClient(t *testing.T, baseURL string, noRetry bool) *apiclient.Client {
	t.Helper()
	client, err := apiclient.New(apiclient.Config{
		BaseURL:      baseURL,
		BaseDelay:    time.Millisecond,
		DisableRetry: noRetry,
	})
	require.NoError(t, err)
	return client
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, Config{Method: http.MethodGet, Path: "health", Format: FormatJSON}, cfg)
}

func TestParseConfigFlags(t *testing.T) {
	lookup := func(key string) (string, bool) {
		return "https://env.example.com/api", key == "LAUNCHPAD_APIPROBE_BASE_URL"
	}
	cfg, err := ParseConfig(newFlagSet(), []string{
		"-method", "post", "-path", "users", "-data", `{"name":"Ada"}`, "-no-retry", "-format", "yaml", "-token", "s3cret",
	}, lookup)

	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/api", cfg.BaseURL)
	assert.Equal(t, http.MethodPost, cfg.Method)
	assert.Equal(t, "users", cfg.Path)
	assert.Equal(t, `{"name":"Ada"}`, cfg.Data)
	assert.True(t, cfg.NoRetry)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.Equal(t, "s3cret", cfg.Token)
}

func TestParseConfigRejectsInvalidInput(t *testing.T) {
	_, err := ParseConfig(newFlagSet(), []string{"-data", "{not json"}, nil)
	assert.Error(t, err)

	_, err = ParseConfig(newFlagSet(), []string{"-format", "xml"}, nil)
	assert.Error(t, err)
}

func TestExecutePrintsSuccess(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":7}`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	cfg := Config{Method: http.MethodPost, Path: "users", Data: `{"name":"Ada"}`, Format: FormatJSON}
	err := execute(context.Background(), testClient(t, srv.URL+"/api", false), cfg, &out)

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ada"}`, string(gotBody))
	var printed map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, true, printed["ok"])
	assert.Equal(t, float64(http.StatusCreated), printed["statusCode"])
	assert.Equal(t, map[string]any{"id": float64(7)}, printed["data"])
	assert.Equal(t, "8 B", printed["size"])
}

func TestExecutePrintsNormalizedErrorWithoutRetryOn404(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"no such route"}`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := execute(context.Background(), testClient(t, srv.URL, false), Config{Method: http.MethodGet, Path: "missing", Format: FormatJSON}, &out)

	require.ErrorIs(t, err, ErrRequestFailed)
	assert.EqualValues(t, 1, hits.Load())
	var printed map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, false, printed["ok"])
	assert.Equal(t, "no such route", printed["message"])
	assert.Equal(t, float64(http.StatusNotFound), printed["statusCode"])
	assert.Equal(t, "not_found", printed["kind"])
}

func TestExecuteRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := execute(context.Background(), testClient(t, srv.URL, false), Config{Method: http.MethodGet, Path: "health", Format: FormatYAML}, &out)

	require.ErrorIs(t, err, ErrRequestFailed)
	assert.EqualValues(t, 4, hits.Load())
	var printed map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, 3, printed["retries"])
	assert.Equal(t, 500, printed["statusCode"])
	assert.Equal(t, "server", printed["kind"])
}

func TestExecuteNoRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := execute(context.Background(), testClient(t, srv.URL, true), Config{Method: http.MethodGet, Path: "health", Format: FormatJSON}, io.Discard)

	require.ErrorIs(t, err, ErrRequestFailed)
	assert.EqualValues(t, 1, hits.Load())
}

func TestNewClientRejectsRelativeBaseURL(t *testing.T) {
	_, err := newClient(Config{}, "/api", zerolog.Nop(), false)
	assert.Error(t, err)
}

func TestNewClientSendsBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	client, err := newClient(Config{Token: "s3cret"}, srv.URL, zerolog.Nop(), false)
	require.NoError(t, err)
	err = execute(context.Background(), client, Config{Method: http.MethodGet, Path: "health", Format: FormatJSON}, io.Discard)

	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", auth)
}
