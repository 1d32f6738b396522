// Package prompts builds the generation prompts for the analysis pipeline.
// Rendering is pure named-placeholder substitution: parameter structs map to
// final strings with no template control flow.
package prompts

import (
	"encoding/json"
	"slices"
	"strings"
)

// Version tags rendered prompts so stored results can be traced back to the
// prompt revision that produced them.
const Version = "v2"

// RejectionCode is the reserved status code a model returns when the
// submitted content is not an analyzable legal document.
const RejectionCode = "NOT_LEGAL_DOCUMENT"

// Bias selects the stance the analysis takes toward the chosen perspective.
type Bias string

// Valid bias modes.
const (
	BiasNeutral   Bias = "neutral"
	BiasFavorable Bias = "favorable"
	BiasRisk      Bias = "risk"
)

var biases = []Bias{
	BiasNeutral,
	BiasFavorable,
	BiasRisk,
}

// Biases returns the list of valid bias modes.
func Biases() []Bias {
	return biases
}

// UnmarshalJSON validates that the decoded string is a known bias mode.
func (b *Bias) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Bias(raw)
	if !slices.Contains(biases, v) {
		return ErrInvalidBias
	}
	*b = v
	return nil
}

// ParseBias validates a string as a known bias mode. Empty input defaults
// to neutral; anything else unrecognized returns ErrInvalidBias.
func ParseBias(s string) (Bias, error) {
	if s == "" {
		return BiasNeutral, nil
	}
	v := Bias(s)
	if !slices.Contains(biases, v) {
		return "", ErrInvalidBias
	}
	return v, nil
}

// AnalysisParams carries the substitution values for the analysis prompt.
type AnalysisParams struct {
	Perspective string
	Bias        Bias
	Content     string
}

// analysisDepth is fixed; depth tuning was never exposed to callers.
const analysisDepth = "comprehensive"

// Analysis renders the full-analysis prompt. The sentinel contract preamble
// always comes first so the model knows to reject non-legal input with the
// reserved status code instead of fabricating an analysis.
func Analysis(p AnalysisParams) string {
	perspective := p.Perspective
	if perspective == "" {
		perspective = "a neutral reviewer"
	}

	bias := p.Bias
	if bias == "" {
		bias = BiasNeutral
	}

	r := strings.NewReplacer(
		"{{rejection_code}}", RejectionCode,
		"{{perspective}}", perspective,
		"{{bias}}", string(bias),
		"{{depth}}", analysisDepth,
		"{{content}}", p.Content,
	)

	return r.Replace(sentinelPreamble + "\n\n" + analysisTemplate)
}

// Extraction renders the party-extraction prompt.
func Extraction(content string) string {
	r := strings.NewReplacer(
		"{{content}}", content,
	)

	return r.Replace(extractionTemplate)
}
