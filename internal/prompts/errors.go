package prompts

import "errors"

// ErrInvalidBias is returned when a bias value is not a recognized mode.
var ErrInvalidBias = errors.New("invalid bias mode")
