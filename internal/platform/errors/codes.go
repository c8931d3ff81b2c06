// Package errors provides coded domain errors with HTTP status mapping and
// localized user messages.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Counter errors
	CodeCounterUnknownOperation Code = "COUNTER_UNKNOWN_OPERATION"

	// Monitoring probe errors
	CodeMonitoringUnknownAction Code = "MONITORING_UNKNOWN_ACTION"

	// Dependency errors
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeStorageUnavailable  Code = "STORAGE_UNAVAILABLE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument,
		CodeCounterUnknownOperation,
		CodeMonitoringUnknownAction:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstreamUnavailable:
		return http.StatusBadGateway
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
