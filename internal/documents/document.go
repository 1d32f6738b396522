// Package documents implements the document domain for Covenant.
// It provides types, data access, and business logic for document upload,
// extracted-text registration, lifecycle status, and blob storage integration.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses. A document is processing from upload until its
// analysis reaches a terminal outcome; completed and failed are terminal
// for a given run, though a re-analysis may claim the document again.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document represents a registered document with its metadata, blob storage
// reference, and extracted text. Content is nil until the ingestion flow
// registers the extracted text; analysis requires non-empty content.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	Content     *string   `json:"content,omitempty"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasContent reports whether extracted text has been registered.
func (d *Document) HasContent() bool {
	return d.Content != nil && *d.Content != ""
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. PageCount is optional and may be extracted
// by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
