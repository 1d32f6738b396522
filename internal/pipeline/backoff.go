package pipeline

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/covenantlabs/covenant/internal/upstream"
)

// DelayCap bounds any single backoff wait.
const DelayCap = 30 * time.Second

// defaultHintSeconds is the policy default when an upstream delay hint is
// absent or unparsable. A hint that fails to parse is never an error.
const defaultHintSeconds = 10.0

// DelayFunc computes the wait before a retry from the error classification,
// the zero-based attempt index, and the upstream delay hint.
type DelayFunc func(class upstream.Classification, attempt int, hint string) time.Duration

// ParseDelayHint converts an upstream delay hint such as "5s" or "1.2s" to
// seconds. The trailing unit suffix is stripped before parsing; bare numbers
// ("5") are accepted as-is. Unparsable input falls back to the default.
func ParseDelayHint(hint string) float64 {
	trimmed := strings.TrimSpace(hint)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsLetter)

	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || seconds < 0 {
		return defaultHintSeconds
	}
	return seconds
}

// Backoff is the default delay policy.
//
// RateLimited waits take the larger of the upstream hint and an exponential
// component (2^attempt seconds), plus up to one second of uniform jitter so
// concurrent tasks do not reconverge on the limiter. ServiceUnavailable
// waits are a plain 5·2^attempt seconds. Both are clamped to DelayCap.
// Non-retryable classifications never reach this policy; they yield zero.
func Backoff(class upstream.Classification, attempt int, hint string) time.Duration {
	var seconds float64

	switch class {
	case upstream.RateLimited:
		exponential := math.Exp2(float64(attempt))
		seconds = math.Max(ParseDelayHint(hint), exponential) + rand.Float64()
	case upstream.ServiceUnavailable:
		seconds = 5 * math.Exp2(float64(attempt))
	default:
		return 0
	}

	return min(time.Duration(seconds*float64(time.Second)), DelayCap)
}
