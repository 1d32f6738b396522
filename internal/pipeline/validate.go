package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/covenantlabs/covenant/internal/analyses"
	"github.com/covenantlabs/covenant/internal/prompts"
	"github.com/covenantlabs/covenant/pkg/formatting"
)

// sentinelResponse is the rejection shape the model returns for non-legal
// content. Field matching in encoding/json is case-insensitive, which covers
// the "statusCode" and "statuscode" spellings observed in practice.
type sentinelResponse struct {
	StatusCode string `json:"statusCode"`
	Note       string `json:"note"`
}

// parseArtifact extracts the first JSON object from raw response text,
// checks for the rejection sentinel, and validates the artifact structure.
// Extraction and syntax failures surface formatting.ErrParseFailed; a
// syntactically valid object that does not satisfy the artifact contract
// surfaces ErrSchema. The sentinel check runs before schema validation so a
// rejection is never misreported as a malformed artifact.
func parseArtifact(text string) (*analyses.Artifact, error) {
	sentinel, err := formatting.ParseObject[sentinelResponse](text)
	if err != nil {
		return nil, err
	}
	if sentinel.StatusCode == prompts.RejectionCode {
		return nil, &RejectionError{Note: sentinel.Note}
	}

	// ParseObject proved the object is well-formed JSON, so a failed decode
	// here is a shape mismatch, not a syntax error.
	raw, err := formatting.ExtractObject(text)
	if err != nil {
		return nil, err
	}

	var artifact analyses.Artifact
	if err := json.Unmarshal([]byte(raw), &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	return &artifact, nil
}

// parsePartyList extracts the first JSON array from raw response text and
// validates it as a list of party names. Non-string elements are a schema
// failure; blank names are dropped and duplicates collapse, preserving the
// order of first appearance.
func parsePartyList(text string) ([]string, error) {
	elements, err := formatting.ParseArray[[]any](text)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(elements))
	names := make([]string, 0, len(elements))

	for i, element := range elements {
		name, ok := element.(string)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not a string", ErrSchema, i)
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names, nil
}
