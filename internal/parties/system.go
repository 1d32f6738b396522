package parties

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for extracted-parties operations.
type System interface {
	Handler() *Handler

	Store(ctx context.Context, documentID uuid.UUID, names []string) (*Record, error)
	Find(ctx context.Context, id uuid.UUID) (*Record, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Record, error)
}
