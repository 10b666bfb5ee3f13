package billy

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an API error. Every non-200 response produces an
// APIError; the kind separates "record does not exist" from everything else.
type ErrorKind int

const (
	// ErrorKindService covers any non-200 response that is not a 404.
	ErrorKindService ErrorKind = iota
	// ErrorKindNotFound covers 404 responses. A not-found error is still a
	// service error for callers that only check the broad kind.
	ErrorKindNotFound
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNotFound:
		return "not_found"
	case ErrorKindService:
		return "service_error"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// APIError is an error response from the Billy server. It carries the
// operation that failed, the HTTP status code, and the raw response body.
type APIError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Kind == ErrorKindNotFound {
		return fmt.Sprintf("no such record for %s with status %d: %s", e.Op, e.StatusCode, e.Body)
	}

	return fmt.Sprintf("failed to process %s with status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an API error for a missing record.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind == ErrorKindNotFound
	}

	return false
}

// IsServiceError reports whether err is any API error from the server,
// not-found included.
func IsServiceError(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr)
}

// Static errors that can be wrapped with context.
var (
	ErrFieldNotFound        = errors.New("field not found")
	ErrNoMoreItems          = errors.New("no more items")
	ErrConfigRequired       = errors.New("config is required")
	ErrEndpointRequired     = errors.New("endpoint is required")
	ErrCircuitBreakerOpen   = errors.New("circuit breaker is open")
	ErrCacheDisabled        = errors.New("cache disabled")
	ErrCacheKeyNotFound     = errors.New("key not found")
	ErrCacheEntryExpired    = errors.New("cache entry expired")
	ErrNATSConfigRequired   = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
)
