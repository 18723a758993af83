// Package apierr provides shared error sentinels and retry infrastructure
// for the translation service clients. Provider-specific failures are
// classified into these sentinels at the adapter boundary.
//
// Adapters wrap with fmt.Errorf("%s: %w", msg, sentinel) and callers check
// with errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import (
	"errors"
	"net/http"
)

// Sentinel errors for translation service failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrUnavailable indicates a server side (5xx) or network failure.
	ErrUnavailable = errors.New("service unavailable")

	// ErrEmptyResult indicates the service answered without a usable translation.
	ErrEmptyResult = errors.New("empty translation")
)

// FromStatus maps an HTTP status code to a sentinel.
// Returns nil for 2xx/3xx codes.
func FromStatus(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrRateLimit
	case status == http.StatusPaymentRequired:
		return ErrQuotaExceeded
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuthFailed
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrTimeout
	case status >= 500:
		return ErrUnavailable
	case status >= 400:
		return ErrBadRequest
	default:
		return nil
	}
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnavailable)
}
