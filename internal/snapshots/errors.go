package snapshots

import (
	"errors"
	"net/http"
)

// Domain errors for snapshot operations.
var (
	ErrNotFound = errors.New("snapshot not found")
	// ErrDuplicate indicates a snapshot already exists for the agency and
	// date. Appends reject duplicates rather than silently skipping them.
	ErrDuplicate = errors.New("snapshot already exists for agency and date")
	// ErrInsufficientHistory indicates a delta was requested for an agency
	// with fewer than two snapshots.
	ErrInsufficientHistory = errors.New("insufficient snapshot history")
)

// MapHTTPStatus maps snapshot domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInsufficientHistory) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
