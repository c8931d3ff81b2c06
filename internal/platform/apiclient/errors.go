package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a terminal request failure.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindRateLimited  Kind = "rate_limited"
	KindServer       Kind = "server"
	KindAPI          Kind = "api"
	KindUnknown      Kind = "unknown"
)

const (
	networkErrorMessage = "Network error: Please check your connection"
	unknownErrorMessage = "An unexpected error occurred"
)

// Error is the normalized error returned for every failed request.
type Error struct {
	// Message prefers the server-supplied "message" field.
	Message string
	// StatusCode is zero when no response was received.
	StatusCode int
	// Data holds the raw response payload: decoded JSON when possible, the
	// body text otherwise. For network failures it holds the transport error text.
	Data any
	Kind Kind
	// Retries counts the retries made before giving up.
	Retries int
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return "api error: " + e.Message
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HasStatusCode reports whether the failure carried an HTTP response.
func (e *Error) HasStatusCode() bool {
	return e != nil && e.StatusCode != 0
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindForStatus maps a failed response status to its classification.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return KindServer
	default:
		return KindAPI
	}
}

// decodePayload returns the body as decoded JSON, as text, or nil when empty.
func decodePayload(body []byte) any {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}
	return string(body)
}

// serverMessage extracts a non-empty "message" field from a decoded payload.
func serverMessage(data any) string {
	object, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	message, _ := object["message"].(string)
	return strings.TrimSpace(message)
}

func responseError(resp *Response, retries int) *Error {
	data := decodePayload(resp.Body)
	message := serverMessage(data)
	if message == "" {
		message = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
	}
	return &Error{
		Message:    message,
		StatusCode: resp.StatusCode,
		Data:       data,
		Kind:       KindForStatus(resp.StatusCode),
		Retries:    retries,
	}
}

func networkError(cause error, retries int) *Error {
	var data any
	if cause != nil {
		data = cause.Error()
	}
	return &Error{
		Message: networkErrorMessage,
		Data:    data,
		Kind:    KindNetwork,
		Retries: retries,
		Cause:   cause,
	}
}

func unknownError(cause error) *Error {
	message := unknownErrorMessage
	if cause != nil && strings.TrimSpace(cause.Error()) != "" {
		message = cause.Error()
	}
	return &Error{
		Message: message,
		Kind:    KindUnknown,
		Cause:   cause,
	}
}
