// Package parties implements the extracted-parties domain for Covenant.
// Records are produced by the extraction workflow and consumed later as
// perspective choices when a full analysis is requested.
package parties

import (
	"time"

	"github.com/google/uuid"
)

// Record holds the distinct party names extracted from one document.
// Order follows first appearance in the upstream response.
type Record struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Parties    []string  `json:"parties"`
	CreatedAt  time.Time `json:"created_at"`
}
