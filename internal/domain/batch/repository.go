package batch

import (
	"context"

	"meatledger/internal/core/id"
)

// Repository defines storage operations for batches.
// There is no Update or Delete: acquisition facts are immutable history.
type Repository interface {
	// Create inserts a new batch
	Create(ctx context.Context, b *Batch) error

	// GetByID retrieves a batch by ID
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)

	// List retrieves batches with filtering, newest first
	List(ctx context.Context, filter ListFilter) ([]*Batch, error)

	// Exists checks if a batch with the given ID exists
	Exists(ctx context.Context, batchID id.ID) (bool, error)
}

// ListFilter contains filtering options for batch list queries.
type ListFilter struct {
	Kind      *Kind
	GoodsType string
	Source    string

	Limit  int
	Offset int
}
