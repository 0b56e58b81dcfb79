package searchdeck

import "github.com/kailas-cloud/searchdeck/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNetwork              = domain.ErrNetwork
	ErrDecode               = domain.ErrDecode
	ErrBusy                 = domain.ErrBusy
	ErrEmptyQuery           = domain.ErrEmptyQuery
	ErrConfirmationRequired = domain.ErrConfirmationRequired
	ErrNotAuthenticated     = domain.ErrNotAuthenticated
	ErrServiceUnavailable   = domain.ErrServiceUnavailable
)

// HTTPError carries the status and message of a non-2xx response.
type HTTPError = domain.HTTPError

// AsHTTPError extracts an HTTPError from an error chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	return domain.AsHTTPError(err)
}

// IsValidationError reports whether err is a field-scoped input
// validation failure.
func IsValidationError(err error) bool {
	return domain.IsValidationError(err)
}
