package apiclient

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultMaxRetries caps how many times one logical request is resubmitted.
	DefaultMaxRetries = 3
	// DefaultBaseDelay is the wait before the first retry; later waits double.
	DefaultBaseDelay = time.Second
)

var retryableStatusCodes = map[int]struct{}{
	http.StatusRequestTimeout:      {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// IsRetryableStatus reports whether a response status marks a transient failure.
func IsRetryableStatus(status int) bool {
	_, ok := retryableStatusCodes[status]
	return ok
}

// BackoffDelay returns the wait before retry attempt (1-based):
// base*2^(attempt-1).
func BackoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

type retryCountKey struct{}

// RetryCount returns how many retries preceded the attempt carrying ctx.
// The first attempt of a request reports zero.
func RetryCount(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	count, _ := ctx.Value(retryCountKey{}).(int)
	return count
}

func withRetryCount(ctx context.Context, count int) context.Context {
	return context.WithValue(ctx, retryCountKey{}, count)
}

// failure is the outcome of one unsuccessful attempt.
type failure struct {
	// response is set when the server answered with a non-2xx status.
	response *Response
	// err is the transport or request-building error.
	err error
	// local marks failures that happened before anything was sent.
	local bool
}

func (f *failure) Error() string {
	if f.response != nil {
		return http.StatusText(f.response.StatusCode)
	}
	if f.err != nil {
		return f.err.Error()
	}
	return "request failed"
}

func (f *failure) retryable() bool {
	if f.local {
		return false
	}
	if f.response == nil {
		return true
	}
	return IsRetryableStatus(f.response.StatusCode)
}
