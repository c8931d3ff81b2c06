package web

import (
	"errors"
	"net/http"

	"github.com/louisbranch/launchpad/internal/platform/httpx"
	"github.com/louisbranch/launchpad/internal/platform/logging"
	"github.com/louisbranch/launchpad/internal/platform/types"
)

// Test failure types accepted by the test monitoring route.
const (
	failureError       = "error"
	failureServerError = "server-error"
)

const (
	testRouteError       = "Test API route error - This is a test error for monitoring"
	testServerError      = "Test server-side error with context - This error includes additional context and tags"
	testRouteCaptured    = "Error captured and sent to monitoring"
	testRouteWorking     = "API route working correctly"
	testRouteDefaultType = "none"
)

type testMonitoringResponse struct {
	types.APIResponse[any]
	Type string `json:"type,omitempty"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpx.MethodNotAllowed("GET, HEAD")(w, r)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTestMonitoring fails on purpose for type=error and type=server-error
// so the monitoring pipeline can be exercised end to end.
func (h *handler) handleTestMonitoring(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed("GET")(w, r)
		return
	}
	ctx := r.Context()
	kind := r.URL.Query().Get("type")

	var err error
	switch kind {
	case failureError:
		err = errors.New(testRouteError)
	case failureServerError:
		h.monitor.SetContext(ctx, "test-context", map[string]any{
			"testType":  failureServerError,
			"timestamp": h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			"userAgent": r.UserAgent(),
		})
		h.monitor.SetTag(ctx, "error-source", "api-route")
		h.monitor.SetTag(ctx, "test-scenario", failureServerError)
		err = errors.New(testServerError)
	}

	if err != nil {
		h.monitor.CaptureException(ctx, err)
		logging.FromRequest(r).Error().Err(err).Str("type", kind).Msg("test monitoring route failed")
		_ = httpx.WriteJSON(w, http.StatusInternalServerError, types.Fail[any](err.Error(), testRouteCaptured))
		return
	}

	if kind == "" {
		kind = testRouteDefaultType
	}
	_ = httpx.WriteJSON(w, http.StatusOK, testMonitoringResponse{
		APIResponse: types.OK[any](nil, testRouteWorking),
		Type:        kind,
	})
}
