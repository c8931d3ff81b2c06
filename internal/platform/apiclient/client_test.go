package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingClock fires every wait immediately and remembers its duration.
type recordingClock struct {
	clock.Clock
	mu    sync.Mutex
	waits []time.Duration
}

func newRecordingClock() *recordingClock {
	return &recordingClock{Clock: clock.WallClock}
}

func (c *recordingClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	fired := make(chan time.Time, 1)
	fired <- time.Now()
	return fired
}

func (c *recordingClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// scriptedServer answers with the scripted statuses in order, repeating the last one.
func scriptedServer(t *testing.T, statuses []int, bodies []string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := int(hits.Add(1)) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statuses[idx])
		if idx < len(bodies) {
			_, _ = io.WriteString(w, bodies[idx])
		}
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newTestClient(t *testing.T, baseURL string, clk clock.Clock, mutate ...func(*Config)) *Client {
	t.Helper()
	cfg := Config{BaseURL: baseURL, Clock: clk}
	for _, fn := range mutate {
		fn(&cfg)
	}
	client, err := New(cfg)
	require.NoError(t, err)
	return client
}

func TestDoRetriesServerErrorThreeTimes(t *testing.T) {
	server, hits := scriptedServer(t, []int{http.StatusInternalServerError}, []string{`{"error":"boom"}`})
	clk := newRecordingClock()
	client := newTestClient(t, server.URL, clk)

	resp, err := client.Do(context.Background(), Request{Path: "/items"})

	require.Nil(t, resp)
	apiErr, ok := AsError(err)
	require.True(t, ok, "expected *Error, got %T", err)
	assert.Equal(t, int32(4), hits.Load(), "one attempt plus three retries")
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, 3, apiErr.Retries)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, clk.Waits())
}

func TestDoDoesNotRetryNotFound(t *testing.T) {
	server, hits := scriptedServer(t, []int{http.StatusNotFound}, nil)
	clk := newRecordingClock()
	client := newTestClient(t, server.URL, clk)

	_, err := client.Do(context.Background(), Request{Path: "/missing"})

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, KindNotFound, apiErr.Kind)
	assert.Equal(t, "Request failed with status code 404", apiErr.Message)
	assert.Empty(t, clk.Waits())
}

func TestDoStopsRetryingAfterSuccess(t *testing.T) {
	server, hits := scriptedServer(t,
		[]int{http.StatusServiceUnavailable, http.StatusOK},
		[]string{``, `{"id":"42","name":"widget"}`},
	)
	clk := newRecordingClock()
	client := newTestClient(t, server.URL, clk)

	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	got, err := Get[item](context.Background(), client, "/items/42")

	require.NoError(t, err)
	assert.Equal(t, item{ID: "42", Name: "widget"}, got)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, []time.Duration{time.Second}, clk.Waits())
}

func TestDoReportsRetriesOnResponse(t *testing.T) {
	server, _ := scriptedServer(t, []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusOK}, nil)
	client := newTestClient(t, server.URL, newRecordingClock())

	resp, err := client.Do(context.Background(), Request{Path: "/"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, resp.Retries)
}

func TestDoValidationErrorUsesServerMessage(t *testing.T) {
	server, hits := scriptedServer(t, []int{http.StatusUnprocessableEntity}, []string{`{"message": "Invalid input"}`})
	client := newTestClient(t, server.URL, newRecordingClock())

	_, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/users", Body: map[string]string{"email": "nope"}})

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid input", apiErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, map[string]any{"message": "Invalid input"}, apiErr.Data)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDoNetworkFailureExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	transport := roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("dial tcp: connection refused")
	})
	clk := newRecordingClock()
	client := newTestClient(t, "http://api.invalid/api", clk, func(cfg *Config) {
		cfg.HTTPClient = &http.Client{Transport: transport}
	})

	_, err := client.Do(context.Background(), Request{Path: "/ping"})

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.False(t, apiErr.HasStatusCode())
	assert.Zero(t, apiErr.StatusCode)
	assert.Equal(t, networkErrorMessage, apiErr.Message)
	assert.Contains(t, apiErr.Data, "connection refused")
	assert.Len(t, clk.Waits(), 3)
}

func TestDoRetryEligibilityByStatus(t *testing.T) {
	tests := []struct {
		status   int
		wantHits int32
	}{
		{http.StatusRequestTimeout, 4},
		{http.StatusTooManyRequests, 4},
		{http.StatusInternalServerError, 4},
		{http.StatusBadGateway, 4},
		{http.StatusServiceUnavailable, 4},
		{http.StatusGatewayTimeout, 4},
		{http.StatusBadRequest, 1},
		{http.StatusUnauthorized, 1},
		{http.StatusForbidden, 1},
		{http.StatusConflict, 1},
		{http.StatusNotImplemented, 1},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server, hits := scriptedServer(t, []int{tc.status}, nil)
			client := newTestClient(t, server.URL, newRecordingClock())

			_, err := client.Do(context.Background(), Request{Path: "/"})

			require.Error(t, err)
			assert.Equal(t, tc.wantHits, hits.Load())
		})
	}
}

func TestDoExposesRetryCountToHooks(t *testing.T) {
	server, _ := scriptedServer(t, []int{http.StatusGatewayTimeout}, nil)
	var mu sync.Mutex
	var seen []int
	client := newTestClient(t, server.URL, newRecordingClock(), func(cfg *Config) {
		cfg.Hooks = []RequestHook{func(r *http.Request) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, RetryCount(r.Context()))
			return nil
		}}
	})

	_, err := client.Do(context.Background(), Request{Path: "/"})

	require.Error(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}

func TestDoHookErrorIsNotRetried(t *testing.T) {
	server, hits := scriptedServer(t, []int{http.StatusOK}, nil)
	client := newTestClient(t, server.URL, newRecordingClock(), func(cfg *Config) {
		cfg.Hooks = []RequestHook{func(*http.Request) error { return errors.New("token expired") }}
	})

	_, err := client.Do(context.Background(), Request{Path: "/"})

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnknown, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "token expired")
	assert.Zero(t, hits.Load())
}

func TestDoNonJSONBodyFallsBackToGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "bad things")
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL, newRecordingClock())

	_, err := client.Do(context.Background(), Request{Path: "/"})

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Request failed with status code 400", apiErr.Message)
	assert.Equal(t, "bad things", apiErr.Data)
	assert.Equal(t, KindAPI, apiErr.Kind)
}

func TestDoDisableRetrySurfacesFirstFailure(t *testing.T) {
	server, hits := scriptedServer(t, []int{http.StatusServiceUnavailable}, nil)
	clk := newRecordingClock()
	client := newTestClient(t, server.URL, clk, func(cfg *Config) {
		cfg.DisableRetry = true
	})

	_, err := client.Do(context.Background(), Request{Path: "/"})

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Zero(t, client.MaxRetries())
	assert.Empty(t, clk.Waits())
}

// stalledClock never fires a wait and cancels the caller as soon as one begins.
type stalledClock struct {
	clock.Clock
	cancel context.CancelFunc
	waits  atomic.Int32
}

func (c *stalledClock) After(time.Duration) <-chan time.Time {
	c.waits.Add(1)
	c.cancel()
	return make(chan time.Time)
}

func TestDoCancelDuringBackoffStopsWaiting(t *testing.T) {
	server, hits := scriptedServer(t, []int{http.StatusServiceUnavailable}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clk := &stalledClock{Clock: clock.WallClock, cancel: cancel}
	client := newTestClient(t, server.URL, clk)

	done := make(chan error, 1)
	go func() {
		_, err := client.Do(ctx, Request{Path: "/"})
		done <- err
	}()

	var err error
	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("request still waiting after cancellation")
	}
	apiErr, ok := AsError(err)
	require.True(t, ok, "expected *Error, got %T", err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, int32(1), clk.waits.Load())
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Zero(t, apiErr.Retries, "an interrupted wait is not a retry")
}

func TestDoResubmitsIdenticalBody(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(payload))
		mu.Unlock()
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Custom"))
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL, newRecordingClock(), func(cfg *Config) {
		cfg.Header = http.Header{"X-Custom": []string{"yes"}}
	})

	got, err := DoJSON[map[string]bool](context.Background(), client, Request{Method: http.MethodPost, Path: "/things", Body: map[string]int{"n": 1}})

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ok": true}, got)
	assert.Equal(t, []string{`{"n":1}`, `{"n":1}`}, bodies)
}

func TestDoLogsRetriesAndTerminalClassification(t *testing.T) {
	server, _ := scriptedServer(t, []int{http.StatusServiceUnavailable}, nil)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	client := newTestClient(t, server.URL, newRecordingClock(), func(cfg *Config) {
		cfg.Logger = &logger
	})

	_, err := client.Do(context.Background(), Request{Path: "/"})
	require.Error(t, err)

	var messages []string
	decoder := json.NewDecoder(&buf)
	for decoder.More() {
		var line map[string]any
		require.NoError(t, decoder.Decode(&line))
		messages = append(messages, line["message"].(string))
	}
	assert.Equal(t, []string{
		"Retrying request (attempt 1/3)",
		"Retrying request (attempt 2/3)",
		"Retrying request (attempt 3/3)",
		"Server error",
	}, messages)
}

func TestDoRecordsMetrics(t *testing.T) {
	server, _ := scriptedServer(t, []int{http.StatusInternalServerError, http.StatusOK}, nil)
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry, "web")
	client := newTestClient(t, server.URL, newRecordingClock(), func(cfg *Config) {
		cfg.Metrics = metrics
	})

	_, err := client.Do(context.Background(), Request{Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.retries.WithLabelValues(http.MethodGet)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "success")))
}

func TestDoSetsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server.URL, newRecordingClock(), func(cfg *Config) {
		cfg.Hooks = []RequestHook{BearerToken(func(context.Context) string { return "secret" })}
	})

	_, err := DoJSON[struct{}](context.Background(), client, Request{Method: http.MethodDelete, Path: "/things/1"})
	require.NoError(t, err)
}

func TestNewRequiresAbsoluteBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "/api"})
	require.Error(t, err)
}

func TestResolveJoinsBasePath(t *testing.T) {
	client := newTestClient(t, "http://example.com/api", nil)

	got, err := client.resolve("/users", map[string][]string{"page": {"2"}})

	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api/users?page=2", got)
}
