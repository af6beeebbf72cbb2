package disposition

import (
	"context"

	"meatledger/internal/core/id"
)

// Repository defines storage operations for disposition records.
// Records are immutable: there is no Update or Delete.
type Repository interface {
	// Create inserts a new disposition record
	Create(ctx context.Context, record *Record) error

	// GetByID retrieves a disposition record by ID
	GetByID(ctx context.Context, recordID id.ID) (*Record, error)

	// ListByBatch retrieves dispositions drawn against a batch, newest first
	ListByBatch(ctx context.Context, batchID id.ID) ([]*Record, error)

	// ListByBuyer retrieves dispositions for a buyer, newest first
	ListByBuyer(ctx context.Context, buyer string) ([]*Record, error)

	// List retrieves all disposition records, newest first
	List(ctx context.Context, filter ListFilter) ([]*Record, error)
}

// ListFilter contains filtering options for disposition list queries.
type ListFilter struct {
	BatchID *id.ID
	Buyer   string

	Limit  int
	Offset int
}
