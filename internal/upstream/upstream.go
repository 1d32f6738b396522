// Package upstream implements the boundary to the external text generation
// service. It provides the HTTP client, the typed error carrying upstream
// status and retry hints, and the classification of failures into the closed
// set the retry layer operates on.
package upstream

import "context"

// System defines the public contract for the generation service.
type System interface {
	// Generate submits a prompt and returns the raw response text.
	// Failures are surfaced as *Error when the service responded, or as
	// transport errors otherwise.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelVersion identifies the configured model for result metadata.
	ModelVersion() string
}

// Classification is the closed set of failure categories the retry layer
// recognizes. Anything that is not RateLimited or ServiceUnavailable is
// Fatal and never retried.
type Classification int

const (
	Fatal Classification = iota
	RateLimited
	ServiceUnavailable
)

// String returns the classification name for logging.
func (c Classification) String() string {
	switch c {
	case RateLimited:
		return "rate_limited"
	case ServiceUnavailable:
		return "service_unavailable"
	default:
		return "fatal"
	}
}

// Retryable reports whether the classification permits another attempt.
func (c Classification) Retryable() bool {
	return c == RateLimited || c == ServiceUnavailable
}
