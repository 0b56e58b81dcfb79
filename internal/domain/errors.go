package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork signals that the server could not be reached at all.
	ErrNetwork = errors.New("network failure")
	// ErrDecode signals a success status with an undecodable response body.
	ErrDecode = errors.New("response decode failure")
	// ErrBusy signals that an operation on the same surface is already in flight.
	ErrBusy = errors.New("operation already in flight")
	// ErrEmptyQuery signals a blank search query after trimming.
	ErrEmptyQuery = errors.New("empty search query")
	// ErrConfirmationRequired signals a destructive action issued without confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrNotAuthenticated signals a protected action attempted without a session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrServiceUnavailable signals a failed search-service health probe.
	ErrServiceUnavailable = errors.New("search service unavailable")
)

// HTTPError is a non-success server response. Message carries the JSON
// `message` field when the error body parses as JSON, otherwise it is empty.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// NewHTTPError creates an HTTP error for the given status and message.
func NewHTTPError(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// AsHTTPError extracts an HTTPError from an error chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// UserMessage builds a user-facing failure message: the server-supplied
// message is appended to base when err carries one, so "conflict" from a
// 409 body reaches the notification instead of a generic line.
func UserMessage(base string, err error) string {
	if he, ok := AsHTTPError(err); ok && he.Message != "" {
		return base + ": " + he.Message
	}
	return base
}
