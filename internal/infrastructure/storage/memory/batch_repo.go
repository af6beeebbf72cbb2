package memory

import (
	"context"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/domain/batch"
)

// BatchRepository implements batch.Repository against the in-memory store.
type BatchRepository struct {
	store *Store
}

// NewBatchRepository creates a batch repository.
func NewBatchRepository(store *Store) *BatchRepository {
	return &BatchRepository{store: store}
}

// Create inserts a new batch.
func (r *BatchRepository) Create(ctx context.Context, b *batch.Batch) error {
	return r.store.write(ctx, func(st *state) error {
		if _, exists := st.batches[b.ID]; exists {
			return apperror.NewConflict("batch already exists").
				WithDetail("batch_id", b.ID.String())
		}
		st.batches[b.ID] = b.Clone()
		return nil
	})
}

// GetByID retrieves a batch by ID.
func (r *BatchRepository) GetByID(ctx context.Context, batchID id.ID) (*batch.Batch, error) {
	var result *batch.Batch
	err := r.store.read(ctx, func(st *state) error {
		b, ok := st.batches[batchID]
		if !ok {
			return apperror.NewNotFound("batch", batchID.String())
		}
		result = b.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List retrieves batches with filtering, newest first.
func (r *BatchRepository) List(ctx context.Context, filter batch.ListFilter) ([]*batch.Batch, error) {
	var result []*batch.Batch
	err := r.store.read(ctx, func(st *state) error {
		for _, b := range st.batches {
			if filter.Kind != nil && b.Kind != *filter.Kind {
				continue
			}
			if filter.GoodsType != "" && b.GoodsType != filter.GoodsType {
				continue
			}
			if filter.Source != "" && b.SourceName != filter.Source {
				continue
			}
			result = append(result, b.Clone())
		}
		sortNewestFirst(result, func(b *batch.Batch) id.ID { return b.ID })
		result = paginate(result, filter.Offset, filter.Limit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Exists checks if a batch with the given ID exists.
func (r *BatchRepository) Exists(ctx context.Context, batchID id.ID) (bool, error) {
	var exists bool
	err := r.store.read(ctx, func(st *state) error {
		_, exists = st.batches[batchID]
		return nil
	})
	return exists, err
}
