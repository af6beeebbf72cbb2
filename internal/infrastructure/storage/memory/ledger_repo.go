package memory

import (
	"context"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/domain/ledger"
)

// LedgerRepository implements ledger.Repository against the in-memory store.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates an allocation record repository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Create inserts a new allocation record. A batch can have at most one.
func (r *LedgerRepository) Create(ctx context.Context, record *ledger.AllocationRecord) error {
	return r.store.write(ctx, func(st *state) error {
		if _, exists := st.allocations[record.ID]; exists {
			return apperror.NewConflict("allocation record already exists").
				WithDetail("allocation_id", record.ID.String())
		}
		if _, exists := st.allocByBatch[record.BatchID]; exists {
			return apperror.NewDuplicateAllocation(record.BatchID.String())
		}
		st.allocations[record.ID] = record.Clone()
		st.allocByBatch[record.BatchID] = record.ID
		return nil
	})
}

// GetByID retrieves an allocation record by ID.
func (r *LedgerRepository) GetByID(ctx context.Context, allocationID id.ID) (*ledger.AllocationRecord, error) {
	var result *ledger.AllocationRecord
	err := r.store.read(ctx, func(st *state) error {
		record, ok := st.allocations[allocationID]
		if !ok {
			return apperror.NewNotFound("allocation record", allocationID.String())
		}
		result = record.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByBatch retrieves the allocation record for a batch.
func (r *LedgerRepository) GetByBatch(ctx context.Context, batchID id.ID) (*ledger.AllocationRecord, error) {
	var result *ledger.AllocationRecord
	err := r.store.read(ctx, func(st *state) error {
		allocationID, ok := st.allocByBatch[batchID]
		if !ok {
			return apperror.NewNotFound("allocation record for batch", batchID.String())
		}
		result = st.allocations[allocationID].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update persists a quantity move. The stored version must be exactly one
// behind the incoming record (the caller bumps it via Touch before Update),
// otherwise a concurrent writer got there first.
func (r *LedgerRepository) Update(ctx context.Context, record *ledger.AllocationRecord) error {
	return r.store.write(ctx, func(st *state) error {
		existing, ok := st.allocations[record.ID]
		if !ok {
			return apperror.NewNotFound("allocation record", record.ID.String())
		}
		if existing.Version != record.Version-1 {
			return apperror.NewConflict("allocation record was modified concurrently").
				WithDetail("allocation_id", record.ID.String()).
				WithDetail("stored_version", existing.Version).
				WithDetail("incoming_version", record.Version)
		}
		st.allocations[record.ID] = record.Clone()
		return nil
	})
}

// List retrieves allocation records with filtering, newest first.
// Status filtering is applied on the derived status.
func (r *LedgerRepository) List(ctx context.Context, filter ledger.ListFilter) ([]*ledger.AllocationRecord, error) {
	var result []*ledger.AllocationRecord
	err := r.store.read(ctx, func(st *state) error {
		batchSet := make(map[id.ID]struct{}, len(filter.BatchIDs))
		for _, batchID := range filter.BatchIDs {
			batchSet[batchID] = struct{}{}
		}

		for _, record := range st.allocations {
			if len(batchSet) > 0 {
				if _, ok := batchSet[record.BatchID]; !ok {
					continue
				}
			}
			if filter.Location != "" && record.Location != filter.Location {
				continue
			}
			if !filter.MatchesStatus(record) {
				continue
			}
			result = append(result, record.Clone())
		}
		sortNewestFirst(result, func(r *ledger.AllocationRecord) id.ID { return r.ID })
		result = paginate(result, filter.Offset, filter.Limit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExistsForBatch checks whether a batch already has an allocation record.
func (r *LedgerRepository) ExistsForBatch(ctx context.Context, batchID id.ID) (bool, error) {
	var exists bool
	err := r.store.read(ctx, func(st *state) error {
		_, exists = st.allocByBatch[batchID]
		return nil
	})
	return exists, err
}
