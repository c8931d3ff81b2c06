package errors

import (
	"bytes"
	stderrors "errors"
	"text/template"

	"github.com/louisbranch/launchpad/internal/platform/i18n"
	"github.com/louisbranch/launchpad/internal/platform/i18n/catalog"
)

// messageNamespace holds user-facing messages keyed by Code.
const messageNamespace = "Errors"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates a domain error with metadata for message templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first domain error in err's chain, or
// CodeUnknown.
func CodeOf(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// HTTPStatus returns the status for err; non-domain errors map to 500.
func HTTPStatus(err error) int {
	return CodeOf(err).HTTPStatus()
}

// Localize renders the user-facing message for err in locale. Templates read
// the error metadata, so {{.Op}} renders Metadata["Op"].
func Localize(err error, locale string) string {
	code := CodeOf(err)
	var metadata map[string]string
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		metadata = domainErr.Metadata
	}
	raw := i18n.NewTranslator(locale).Raw(catalog.Key(messageNamespace, string(code)))
	return render(raw, metadata)
}

// render executes tmpl with metadata, falling back to the raw template.
func render(tmpl string, metadata map[string]string) string {
	if metadata == nil {
		metadata = map[string]string{}
	}
	t, err := template.New("msg").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
