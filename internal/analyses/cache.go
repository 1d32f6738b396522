package analyses

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/pkg/pagination"
)

// cached decorates a System with a read-through cache on Find. Every write
// through the decorator invalidates the affected entry, so a cached record
// can be stale only relative to writers bypassing this System instance.
// The cache sits outside the pipeline contract; the orchestrator only ever
// sees the System interface.
type cached struct {
	inner System

	mu      sync.RWMutex
	entries map[uuid.UUID]Analysis
}

// NewCached wraps a System with an in-memory read-through cache.
func NewCached(inner System) System {
	return &cached{
		inner:   inner,
		entries: make(map[uuid.UUID]Analysis),
	}
}

func (c *cached) Handler() *Handler {
	return c.inner.Handler()
}

func (c *cached) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	return c.inner.List(ctx, page, filters)
}

func (c *cached) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if ok {
		return &entry, nil
	}

	a, err := c.inner.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[a.ID] = *a
	c.mu.Unlock()

	return a, nil
}

func (c *cached) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Analysis, error) {
	return c.inner.ListByDocument(ctx, documentID)
}

func (c *cached) Create(ctx context.Context, cmd CreateCommand) (*Analysis, error) {
	return c.inner.Create(ctx, cmd)
}

func (c *cached) MarkStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if err := c.inner.MarkStatus(ctx, id, status); err != nil {
		return err
	}
	c.invalidate(id)
	return nil
}

func (c *cached) Complete(ctx context.Context, id uuid.UUID, cmd ResultCommand) (*Analysis, error) {
	a, err := c.inner.Complete(ctx, id, cmd)
	if err != nil {
		return nil, err
	}
	c.invalidate(id)
	return a, nil
}

func (c *cached) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(id)
	return nil
}

func (c *cached) invalidate(id uuid.UUID) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}
