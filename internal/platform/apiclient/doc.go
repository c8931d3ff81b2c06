// Package apiclient wraps outgoing JSON HTTP calls with transparent retries
// and normalized errors.
//
// A logical request is attempted once and then retried at most MaxRetries
// times (3 by default) when the failure is transient: no response was
// received, or the response status is one of 408, 429, 500, 502, 503 or 504.
// The wait before retry k is BaseDelay*2^(k-1), so the default worst case adds
// 1s+2s+4s before the final attempt. Any other failure, or a retryable failure
// that exhausts the limit, is returned as an *Error carrying a message, the
// HTTP status code when one was received, and the raw response payload.
package apiclient
