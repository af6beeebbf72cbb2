package reports

import (
	"context"
	"fmt"
	"sort"

	"meatledger/internal/core/tx"
	"meatledger/internal/core/types"
	"meatledger/internal/domain/disposition"
	"meatledger/internal/domain/ledger"
	"meatledger/internal/domain/order"

	"github.com/shopspring/decimal"
)

// Service computes read-only summaries by folding over the stores.
// No side effects, no caching: every call recomputes from current state
// inside a read-only transaction, so a summary never observes a
// partially-updated allocation record.
type Service struct {
	allocations  ledger.Repository
	dispositions disposition.Repository
	orders       order.Repository
	txManager    tx.ReadOnlyManager
}

// NewService creates a new aggregator service.
func NewService(
	allocations ledger.Repository,
	dispositions disposition.Repository,
	orders order.Repository,
	txManager tx.ReadOnlyManager,
) *Service {
	return &Service{
		allocations:  allocations,
		dispositions: dispositions,
		orders:       orders,
		txManager:    txManager,
	}
}

// TotalAvailableStock sums the available pool across all allocations.
func (s *Service) TotalAvailableStock(ctx context.Context) (types.Quantity, error) {
	var total types.Quantity
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		records, err := s.allocations.List(ctx, ledger.ListFilter{})
		if err != nil {
			return fmt.Errorf("list allocations: %w", err)
		}
		for _, r := range records {
			total += r.Available
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// TotalRevenue sums total sale value across all dispositions.
func (s *Service) TotalRevenue(ctx context.Context) (types.Money, error) {
	var total types.Money
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		records, err := s.dispositions.List(ctx, disposition.ListFilter{})
		if err != nil {
			return fmt.Errorf("list dispositions: %w", err)
		}
		for _, r := range records {
			total = total.Add(r.TotalSaleValue)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// AverageSalePrice is total revenue divided by total disposed quantity.
// Returns zero when nothing has been sold (never divides by zero).
func (s *Service) AverageSalePrice(ctx context.Context) (types.Money, error) {
	var avg types.Money
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		records, err := s.dispositions.List(ctx, disposition.ListFilter{})
		if err != nil {
			return fmt.Errorf("list dispositions: %w", err)
		}

		var revenue types.Money
		var quantity types.Quantity
		for _, r := range records {
			revenue = revenue.Add(r.TotalSaleValue)
			quantity += r.Quantity
		}

		if quantity.IsZero() {
			avg = decimal.Zero
			return nil
		}
		avg = revenue.Div(quantity.Decimal())
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return avg, nil
}

// TopRequesterByVolume folds orders by requester and returns the one with
// the largest total ordered quantity. Ties break alphabetically so the
// result is deterministic.
func (s *Service) TopRequesterByVolume(ctx context.Context) (RequesterVolume, error) {
	var top RequesterVolume
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		orders, err := s.orders.List(ctx, order.ListFilter{})
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}

		volumes := make(map[string]types.Quantity)
		for _, o := range orders {
			volumes[o.Requester] += o.Quantity
		}

		names := make([]string, 0, len(volumes))
		for name := range volumes {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if volumes[name] > top.Volume {
				top = RequesterVolume{Requester: name, Volume: volumes[name]}
			}
		}
		return nil
	})
	if err != nil {
		return RequesterVolume{}, err
	}
	return top, nil
}

// PendingOrderCount counts orders still in the pending state.
func (s *Service) PendingOrderCount(ctx context.Context) (int, error) {
	var count int
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		orders, err := s.orders.List(ctx, order.ListFilter{Statuses: []order.Status{order.StatusPending}})
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		count = len(orders)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Summary computes all dashboard metrics in one consistent snapshot.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		allocations, err := s.allocations.List(ctx, ledger.ListFilter{})
		if err != nil {
			return fmt.Errorf("list allocations: %w", err)
		}
		for _, r := range allocations {
			summary.TotalAvailableStock += r.Available
		}

		dispositions, err := s.dispositions.List(ctx, disposition.ListFilter{})
		if err != nil {
			return fmt.Errorf("list dispositions: %w", err)
		}
		var disposed types.Quantity
		for _, r := range dispositions {
			summary.TotalRevenue = summary.TotalRevenue.Add(r.TotalSaleValue)
			disposed += r.Quantity
		}
		if !disposed.IsZero() {
			summary.AverageSalePrice = summary.TotalRevenue.Div(disposed.Decimal())
		}

		orders, err := s.orders.List(ctx, order.ListFilter{})
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		volumes := make(map[string]types.Quantity)
		for _, o := range orders {
			volumes[o.Requester] += o.Quantity
			if o.Status == order.StatusPending {
				summary.PendingOrderCount++
			}
		}
		names := make([]string, 0, len(volumes))
		for name := range volumes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if volumes[name] > summary.TopRequester.Volume {
				summary.TopRequester = RequesterVolume{Requester: name, Volume: volumes[name]}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
