// Package analyses implements the analysis record domain for Covenant.
// It provides types, data access, and lifecycle status management for the
// analysis records produced by the pipeline.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/internal/prompts"
)

// Status is an analysis lifecycle state. Transitions advance monotonically
// pending → processing → complete | failed and never revert.
type Status string

// Valid analysis statuses.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition may follow the status.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Analysis represents one analysis run over a document. Result and the
// processing metadata fields are populated only when the run completes.
type Analysis struct {
	ID            uuid.UUID    `json:"id"`
	DocumentID    uuid.UUID    `json:"document_id"`
	Status        Status       `json:"status"`
	Perspective   string       `json:"perspective"`
	Bias          prompts.Bias `json:"bias"`
	Result        *Artifact    `json:"result,omitempty"`
	ElapsedMS     *int64       `json:"elapsed_ms,omitempty"`
	Retries       *int         `json:"retries,omitempty"`
	PromptVersion *string      `json:"prompt_version,omitempty"`
	ModelVersion  *string      `json:"model_version,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CreateCommand carries the data needed to create an analysis record.
// New records always start in pending; a re-analysis of the same document
// creates a new record rather than mutating an old one.
type CreateCommand struct {
	DocumentID  uuid.UUID    `json:"document_id"`
	Perspective string       `json:"perspective"`
	Bias        prompts.Bias `json:"bias"`
}

// ResultCommand carries the validated artifact and processing metadata
// persisted when an analysis completes.
type ResultCommand struct {
	Artifact      Artifact
	Elapsed       time.Duration
	Retries       int
	PromptVersion string
	ModelVersion  string
}
