package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks callers that are authenticated but not the resource owner.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is a generic sentinel for malformed requests.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamUnavailable marks failures of model endpoints on the critical path.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
