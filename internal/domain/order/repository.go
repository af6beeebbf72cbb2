package order

import (
	"context"

	"meatledger/internal/core/id"
)

// Repository defines storage operations for orders.
// Orders are never deleted; terminal orders are retained for audit.
type Repository interface {
	// Create inserts a new order
	Create(ctx context.Context, o *Order) error

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// Update persists a status change
	Update(ctx context.Context, o *Order) error

	// List retrieves orders with filtering, newest first
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
}

// ListFilter contains filtering options for order list queries.
type ListFilter struct {
	Requester string
	GoodsType string
	Statuses  []Status

	Limit  int
	Offset int
}

// MatchesStatus reports whether an order passes the status filter.
func (f ListFilter) MatchesStatus(o *Order) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if s == o.Status {
			return true
		}
	}
	return false
}
