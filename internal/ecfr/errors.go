package ecfr

import "errors"

// Domain errors for registry operations.
var (
	// ErrNotFound indicates the requested agency is absent from the registry.
	ErrNotFound = errors.New("agency not found")
	// ErrUnavailable indicates the registry returned a non-2xx status or
	// the call timed out. Always recoverable; callers degrade or skip.
	ErrUnavailable = errors.New("registry unavailable")
)
