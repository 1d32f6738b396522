package analyses

import (
	"errors"
	"net/http"
)

// Domain errors for analysis record operations.
var (
	ErrNotFound      = errors.New("analysis not found")
	ErrDuplicate     = errors.New("analysis already exists")
	ErrInvalidStatus = errors.New("invalid analysis status transition")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStatus) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
