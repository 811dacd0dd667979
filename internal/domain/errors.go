package domain

import "errors"

// Error kinds recognized by the request boundary. The service layer is the
// only place that wraps raw upstream failures into these; handlers match them
// with errors.Is and never construct them.
var (
	// ErrInvalidInput marks a request rejected before any upstream call
	// (blank id, nil request, failed field validation).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an employee that does not exist upstream. It is
	// always surfaced unwrapped, whether detected from an upstream 404 or
	// from an empty payload.
	ErrNotFound = errors.New("employee not found")

	// ErrUnavailable marks an upstream failure: transport errors, server
	// errors after retries, or a response without a usable payload.
	ErrUnavailable = errors.New("employee service unavailable")
)

// ErrCacheMiss is returned by Store implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")
