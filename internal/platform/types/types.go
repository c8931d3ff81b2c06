// Package types holds wire shapes shared by services and API clients.
package types

// APIResponse is the envelope returned by JSON endpoints.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T, message string) APIResponse[T] {
	return APIResponse[T]{Success: true, Data: data, Message: message}
}

// Fail builds a failed envelope.
func Fail[T any](errText, message string) APIResponse[T] {
	return APIResponse[T]{Error: errText, Message: message}
}
