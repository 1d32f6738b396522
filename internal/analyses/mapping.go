package analyses

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/internal/prompts"
	"github.com/covenantlabs/covenant/pkg/query"
	"github.com/covenantlabs/covenant/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("status", "Status").
	Project("perspective", "Perspective").
	Project("bias", "Bias").
	Project("result", "Result").
	Project("elapsed_ms", "ElapsedMS").
	Project("retries", "Retries").
	Project("prompt_version", "PromptVersion").
	Project("model_version", "ModelVersion").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status      *string    `json:"status,omitempty"`
	DocumentID  *uuid.UUID `json:"document_id,omitempty"`
	Perspective *string    `json:"perspective,omitempty"`
	Bias        *string    `json:"bias,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("Perspective", f.Perspective).
		WhereEquals("Bias", f.Bias)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	if p := values.Get("perspective"); p != "" {
		f.Perspective = &p
	}

	if b := values.Get("bias"); b != "" {
		f.Bias = &b
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	var status, bias string
	var resultRaw []byte

	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&status,
		&a.Perspective,
		&bias,
		&resultRaw,
		&a.ElapsedMS,
		&a.Retries,
		&a.PromptVersion,
		&a.ModelVersion,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		return a, err
	}

	a.Status = Status(status)
	a.Bias = prompts.Bias(bias)

	if len(resultRaw) > 0 {
		var artifact Artifact
		if err := json.Unmarshal(resultRaw, &artifact); err != nil {
			return a, fmt.Errorf("unmarshal result: %w", err)
		}
		a.Result = &artifact
	}

	return a, nil
}
