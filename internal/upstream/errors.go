package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a failure response from the generation service.
// RetryAfter carries the upstream-provided delay hint (e.g. "5s") when the
// service included one with a 429; it is advisory text, never parsed here.
type Error struct {
	StatusCode int
	Message    string
	RetryAfter string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// Classify maps an error from Generate to its retry classification.
// It is the single place that inspects upstream status codes; callers
// branch on the returned classification, never on the error contents.
func Classify(err error) Classification {
	var ue *Error
	if !errors.As(err, &ue) {
		return Fatal
	}

	switch ue.StatusCode {
	case http.StatusTooManyRequests:
		return RateLimited
	case http.StatusServiceUnavailable:
		return ServiceUnavailable
	default:
		return Fatal
	}
}

// RetryHint returns the upstream delay hint attached to err, if any.
func RetryHint(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.RetryAfter
	}
	return ""
}
