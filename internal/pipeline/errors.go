package pipeline

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/covenantlabs/covenant/internal/documents"
	"github.com/covenantlabs/covenant/internal/prompts"
	"github.com/covenantlabs/covenant/internal/upstream"
	"github.com/covenantlabs/covenant/pkg/formatting"
)

// Pipeline errors.
var (
	// ErrRetriesExhausted wraps the final upstream error after the retry
	// budget for a run has been spent.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrSchema is returned when extracted JSON parses but does not satisfy
	// the expected result structure. Schema failures are terminal; the model
	// produced a response, just not a usable one.
	ErrSchema = errors.New("response failed schema validation")
)

// RejectionError is the distinguished outcome for content the model refused
// to analyze as a legal document. It is not a pipeline fault: the run worked,
// the verdict was rejection.
type RejectionError struct {
	Note string
}

func (e *RejectionError) Error() string {
	if e.Note == "" {
		return "content rejected: not a legal document"
	}
	return fmt.Sprintf("content rejected: %s", e.Note)
}

// Code returns the machine-checkable rejection code.
func (e *RejectionError) Code() string {
	return prompts.RejectionCode
}

// MapHTTPStatus maps pipeline errors to appropriate HTTP status codes.
// Document domain errors pass through to the document mapping so callers of
// run endpoints see the same codes the document endpoints produce.
func MapHTTPStatus(err error) int {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return http.StatusUnprocessableEntity
	}

	if errors.Is(err, ErrRetriesExhausted) ||
		errors.Is(err, ErrSchema) ||
		errors.Is(err, formatting.ErrParseFailed) {
		return http.StatusBadGateway
	}

	var ue *upstream.Error
	if errors.As(err, &ue) {
		return http.StatusBadGateway
	}

	if errors.Is(err, documents.ErrNotFound) ||
		errors.Is(err, documents.ErrNoContent) ||
		errors.Is(err, documents.ErrBusy) {
		return documents.MapHTTPStatus(err)
	}

	return http.StatusInternalServerError
}
