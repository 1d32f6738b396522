package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/pkg/pagination"
)

// System defines the public contract for analysis record operations.
// The pipeline orchestrator drives Create, MarkStatus, Complete, and Delete;
// the HTTP surface consumes the read operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Analysis, error)
	Create(ctx context.Context, cmd CreateCommand) (*Analysis, error)
	MarkStatus(ctx context.Context, id uuid.UUID, status Status) error
	Complete(ctx context.Context, id uuid.UUID, cmd ResultCommand) (*Analysis, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
