package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louisbranch/launchpad/internal/platform/config"
)

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &fields), line)
	return fields
}

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Service: "web", Environment: config.EnvProduction, Output: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Str("url", "/users").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	fields := decodeLine(t, lines[0])
	assert.Equal(t, "shown", fields["message"])
	assert.Equal(t, "web", fields["service"])
	assert.Equal(t, "production", fields["env"])
	assert.Equal(t, "/users", fields["url"])
}

func TestNewDevelopmentLogsDebugToConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Service: "admin", Environment: config.EnvDevelopment, Output: &buf})

	logger.Debug().Msg("API Request")

	assert.Contains(t, buf.String(), "API Request")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "console output should not be JSON")
}

func TestNewLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Environment: config.EnvProduction, Level: "warn", Output: &buf})

	logger.Info().Msg("skipped")
	logger.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "kept")
}

func TestMiddlewareLogsAccessLine(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Service: "web", Environment: config.EnvTest, Output: &buf})

	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromRequest(r).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	inside := decodeLine(t, lines[0])
	assert.Equal(t, "inside", inside["message"])
	assert.Equal(t, "web", inside["service"])
	fields := decodeLine(t, lines[1])
	assert.Equal(t, "request", fields["message"])
	assert.Equal(t, "/api/health", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
