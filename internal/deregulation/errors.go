package deregulation

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/proctor/internal/ecfr"
)

var (
	// ErrNotFound indicates no cached assessment exists for the agency.
	ErrNotFound = errors.New("assessment not found")

	// ErrNotConfigured indicates no analysis model is configured, so
	// classifications cannot be computed.
	ErrNotConfigured = errors.New("analysis model not configured")
)

// MapHTTPStatus maps domain and registry errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ecfr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ecfr.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
