package memory

import (
	"context"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/domain/disposition"
)

// DispositionRepository implements disposition.Repository against the
// in-memory store.
type DispositionRepository struct {
	store *Store
}

// NewDispositionRepository creates a disposition record repository.
func NewDispositionRepository(store *Store) *DispositionRepository {
	return &DispositionRepository{store: store}
}

// Create inserts a new disposition record.
func (r *DispositionRepository) Create(ctx context.Context, record *disposition.Record) error {
	return r.store.write(ctx, func(st *state) error {
		if _, exists := st.dispositions[record.ID]; exists {
			return apperror.NewConflict("disposition record already exists").
				WithDetail("disposition_id", record.ID.String())
		}
		cp := *record
		st.dispositions[record.ID] = &cp
		return nil
	})
}

// GetByID retrieves a disposition record by ID.
func (r *DispositionRepository) GetByID(ctx context.Context, recordID id.ID) (*disposition.Record, error) {
	var result *disposition.Record
	err := r.store.read(ctx, func(st *state) error {
		record, ok := st.dispositions[recordID]
		if !ok {
			return apperror.NewNotFound("disposition record", recordID.String())
		}
		cp := *record
		result = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByBatch retrieves dispositions drawn against a batch, newest first.
func (r *DispositionRepository) ListByBatch(ctx context.Context, batchID id.ID) ([]*disposition.Record, error) {
	return r.List(ctx, disposition.ListFilter{BatchID: &batchID})
}

// ListByBuyer retrieves dispositions for a buyer, newest first.
func (r *DispositionRepository) ListByBuyer(ctx context.Context, buyer string) ([]*disposition.Record, error) {
	return r.List(ctx, disposition.ListFilter{Buyer: buyer})
}

// List retrieves disposition records with filtering, newest first.
func (r *DispositionRepository) List(ctx context.Context, filter disposition.ListFilter) ([]*disposition.Record, error) {
	var result []*disposition.Record
	err := r.store.read(ctx, func(st *state) error {
		for _, record := range st.dispositions {
			if filter.BatchID != nil && record.BatchID != *filter.BatchID {
				continue
			}
			if filter.Buyer != "" && record.Buyer != filter.Buyer {
				continue
			}
			cp := *record
			result = append(result, &cp)
		}
		sortNewestFirst(result, func(r *disposition.Record) id.ID { return r.ID })
		result = paginate(result, filter.Offset, filter.Limit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
