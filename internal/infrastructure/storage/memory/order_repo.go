package memory

import (
	"context"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/domain/order"
)

// OrderRepository implements order.Repository against the in-memory store.
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.store.write(ctx, func(st *state) error {
		if _, exists := st.orders[o.ID]; exists {
			return apperror.NewConflict("order already exists").
				WithDetail("order_id", o.ID.String())
		}
		st.orders[o.ID] = o.Clone()
		return nil
	})
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, orderID id.ID) (*order.Order, error) {
	var result *order.Order
	err := r.store.read(ctx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return apperror.NewNotFound("order", orderID.String())
		}
		result = o.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update persists a status change.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.orders[o.ID]; !ok {
			return apperror.NewNotFound("order", o.ID.String())
		}
		st.orders[o.ID] = o.Clone()
		return nil
	})
}

// List retrieves orders with filtering, newest first.
func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	var result []*order.Order
	err := r.store.read(ctx, func(st *state) error {
		for _, o := range st.orders {
			if filter.Requester != "" && o.Requester != filter.Requester {
				continue
			}
			if filter.GoodsType != "" && o.GoodsType != filter.GoodsType {
				continue
			}
			if !filter.MatchesStatus(o) {
				continue
			}
			result = append(result, o.Clone())
		}
		sortNewestFirst(result, func(o *order.Order) id.ID { return o.ID })
		result = paginate(result, filter.Offset, filter.Limit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
