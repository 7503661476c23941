package shared

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthExchangeFailed  = fmt.Errorf("authorization code exchange failed")
	ErrRefreshFailed       = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken      = fmt.Errorf("no refresh token available")
	ErrAuthorizationDenied = fmt.Errorf("authorization denied")
	ErrCallbackTimeout     = fmt.Errorf("timed out waiting for authorization callback")

	// API and network errors
	ErrPollFailed       = fmt.Errorf("currently playing request failed")
	ErrImageFetchFailed = fmt.Errorf("cover art download failed")
	ErrNetworkTimeout   = fmt.Errorf("network request timed out")

	// Storage errors
	ErrTokenStore = fmt.Errorf("token store failure")
)

// StatusError is an upstream failure tagged with the HTTP status code that caused it.
//
// Unwraps to its Kind so callers can match with [errors.Is] and still pull the code out with [errors.As].
type StatusError struct {
	Kind       error
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: status %d", e.Kind, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Kind
}

// NewStatusError builds a [StatusError] for kind and code.
func NewStatusError(kind error, code int) *StatusError {
	return &StatusError{Kind: kind, StatusCode: code}
}

// StatusCode extracts the upstream status code from err, or 0 if err carries none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsTransient reports whether err is worth retrying: timeouts, rate limiting and server-side failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetworkTimeout) {
		return true
	}
	if !errors.Is(err, ErrPollFailed) {
		return false
	}
	code := StatusCode(err)
	return code == http.StatusTooManyRequests || code >= 500
}

// WrapNetErr tags deadline and timeout failures from an outbound call with [ErrNetworkTimeout].
//
// Other errors are wrapped with kind.
func WrapNetErr(kind error, err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %w: %v", ErrNetworkTimeout, kind, err)
	}
	return fmt.Errorf("%w: %v", kind, err)
}
