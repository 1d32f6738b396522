package parties

import (
	"errors"
	"net/http"
)

// Domain errors for extracted-parties operations.
var (
	ErrNotFound  = errors.New("extracted parties record not found")
	ErrDuplicate = errors.New("extracted parties record already exists")
	ErrEmpty     = errors.New("no parties to store")
)

// MapHTTPStatus maps parties domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmpty) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
