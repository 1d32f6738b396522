package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	SetContent(ctx context.Context, id uuid.UUID, content string) (*Document, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error

	// ClaimProcessing atomically moves the document into processing,
	// failing with ErrBusy when another run already holds it. Used by the
	// orchestrator when exclusive processing is configured.
	ClaimProcessing(ctx context.Context, id uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}
