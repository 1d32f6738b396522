// Package formatting provides parsing and rendering helpers for values that
// cross the service boundary as text: byte sizes and model response content.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

var bytesPattern = regexp.MustCompile(`^(\d+\.?\d*)\s*([A-Za-z]*)$`)

// FormatBytes renders a byte count using base-1024 units. Negative precision
// clamps to zero.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}
	if precision < 0 {
		precision = 0
	}

	f := float64(n)
	exp := min(int(math.Floor(math.Log(f)/math.Log(1024))), len(units)-1)
	size := f / math.Pow(1024, float64(exp))

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[exp]
}

// ParseBytes parses a size string like "50MB" into a byte count. Units run
// B through YB, base-1024, case-insensitive, with an optional space before
// the unit. A bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	matches := bytesPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	unit := strings.ToUpper(matches[2])
	if unit == "" {
		return int64(value), nil
	}

	exp := slices.Index(units, unit)
	if exp == -1 {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}

	return int64(value * math.Pow(1024, float64(exp))), nil
}
