package apiclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 1000 * time.Millisecond},
		{attempt: 2, want: 2000 * time.Millisecond},
		{attempt: 3, want: 4000 * time.Millisecond},
		{attempt: 0, want: 1000 * time.Millisecond},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, BackoffDelay(DefaultBaseDelay, tc.attempt), "attempt %d", tc.attempt)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for _, status := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsRetryableStatus(status), "status %d", status)
	}
	for _, status := range []int{200, 400, 401, 403, 404, 422, 501} {
		assert.False(t, IsRetryableStatus(status), "status %d", status)
	}
}

func TestFailureRetryable(t *testing.T) {
	assert.True(t, (&failure{}).retryable(), "no response is retryable")
	assert.False(t, (&failure{local: true}).retryable())
	assert.True(t, (&failure{response: &Response{StatusCode: http.StatusGatewayTimeout}}).retryable())
	assert.False(t, (&failure{response: &Response{StatusCode: http.StatusNotFound}}).retryable())
}

func TestRetryCountDefaultsToZero(t *testing.T) {
	assert.Zero(t, RetryCount(context.Background()))
	assert.Equal(t, 2, RetryCount(withRetryCount(context.Background(), 2)))
}

func TestKindForStatus(t *testing.T) {
	tests := map[int]Kind{
		401: KindUnauthorized,
		403: KindForbidden,
		404: KindNotFound,
		422: KindValidation,
		429: KindRateLimited,
		500: KindServer,
		502: KindServer,
		503: KindServer,
		504: KindServer,
		409: KindAPI,
		408: KindAPI,
	}
	for status, want := range tests {
		assert.Equal(t, want, KindForStatus(status), "status %d", status)
	}
}
