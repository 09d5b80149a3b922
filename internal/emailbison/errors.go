package emailbison

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("EmailBison API key is required")

// ErrClientClosed is returned for requests issued after Close.
var ErrClientClosed = errors.New("client is closed")

// APIError is returned when the API answers with a 4xx or 5xx status.
type APIError struct {
	StatusCode int
	// Detail is the "message" field of a JSON error body, or the raw body text.
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EmailBison API error (%d): %s", e.StatusCode, e.Detail)
}

// TransportError wraps failures that happened before a response was
// received: connection errors, timeouts, cancelled contexts and unreadable
// response bodies.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("EmailBison request %s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err is or wraps an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
