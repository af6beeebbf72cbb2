package ledger

import (
	"context"

	"meatledger/internal/core/id"
)

// Repository defines storage operations for allocation records.
// Records are never deleted: sold-out allocations are retained for audit.
type Repository interface {
	// Create inserts a new allocation record
	Create(ctx context.Context, record *AllocationRecord) error

	// GetByID retrieves an allocation record by ID
	GetByID(ctx context.Context, allocationID id.ID) (*AllocationRecord, error)

	// GetByBatch retrieves the allocation record for a batch (1:1)
	GetByBatch(ctx context.Context, batchID id.ID) (*AllocationRecord, error)

	// Update persists a quantity move with optimistic locking
	Update(ctx context.Context, record *AllocationRecord) error

	// List retrieves allocation records with filtering
	List(ctx context.Context, filter ListFilter) ([]*AllocationRecord, error)

	// ExistsForBatch checks whether a batch already has an allocation record
	ExistsForBatch(ctx context.Context, batchID id.ID) (bool, error)
}

// ListFilter contains filtering options for allocation list queries.
// Status filtering is applied on the derived status.
type ListFilter struct {
	BatchIDs []id.ID
	Location string
	Statuses []Status

	Limit  int
	Offset int
}

// MatchesStatus reports whether a record passes the status filter.
func (f ListFilter) MatchesStatus(record *AllocationRecord) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	status := record.Status()
	for _, s := range f.Statuses {
		if s == status {
			return true
		}
	}
	return false
}
