package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParseFailed is returned when no well-formed JSON value can be
// extracted from response content.
var ErrParseFailed = errors.New("failed to parse response")

// ExtractObject returns the first balanced JSON object embedded in content.
// Generation models are prompted to answer with bare JSON but routinely wrap
// it in prose or markdown fences; the scan skips everything before the first
// opening brace and everything after its balanced closing counterpart.
func ExtractObject(content string) (string, error) {
	return extractBalanced(content, '{', '}')
}

// ExtractArray returns the first balanced JSON array embedded in content.
func ExtractArray(content string) (string, error) {
	return extractBalanced(content, '[', ']')
}

// ParseObject extracts the first embedded JSON object and unmarshals it into T.
func ParseObject[T any](content string) (T, error) {
	var result T

	raw, err := ExtractObject(content)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return result, fmt.Errorf("%w: %s", ErrParseFailed, truncate(content))
	}

	return result, nil
}

// ParseArray extracts the first embedded JSON array and unmarshals it into T.
func ParseArray[T any](content string) (T, error) {
	var result T

	raw, err := ExtractArray(content)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return result, fmt.Errorf("%w: %s", ErrParseFailed, truncate(content))
	}

	return result, nil
}

// extractBalanced scans for the first open delimiter and returns the
// substring through its matching close delimiter. Delimiters inside JSON
// strings are ignored, including escaped quotes.
func extractBalanced(content string, open, close byte) (string, error) {
	start := strings.IndexByte(content, open)
	if start == -1 {
		return "", fmt.Errorf("%w: %s", ErrParseFailed, truncate(content))
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(content); i++ {
		c := content[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrParseFailed, truncate(content))
}

func truncate(content string) string {
	content = strings.TrimSpace(content)
	if len(content) > 256 {
		return content[:256] + "..."
	}
	return content
}
