package order

import (
	"context"
	"fmt"
	"time"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/tx"
	"meatledger/internal/domain/activity"
	"meatledger/pkg/logger"
	"meatledger/pkg/numerator"
)

// Service provides business operations for the order tracker.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
	activity  *activity.Service
}

// NewService creates a new order tracker service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service, act *activity.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
		activity:  act,
	}
}

// Create submits a new order with status pending.
func (s *Service) Create(ctx context.Context, in Input) (*Order, error) {
	o := New(in)

	if err := o.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ORD"), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	o.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return s.activity.Recordf(ctx, "order %s submitted: %s %s for %s",
			o.Number, o.Quantity, o.GoodsType, o.Requester)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created",
		"id", o.ID,
		"number", o.Number,
		"requester", o.Requester,
	)
	return o.Clone(), nil
}

// Transition moves an order to a new status; only the legal edges of the
// state machine are accepted, and terminal states admit no exit.
func (s *Service) Transition(ctx context.Context, orderID id.ID, to Status) (*Order, error) {
	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("order", orderID.String())
			}
			return err
		}

		from := o.Status
		if err := o.Transition(to); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		result = o
		return s.activity.Recordf(ctx, "order %s: %s -> %s", o.Number, from, to)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order transitioned",
		"id", result.ID,
		"number", result.Number,
		"status", result.Status,
	)
	return result.Clone(), nil
}

// GetByID retrieves an order by ID.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, err
	}
	return o, nil
}

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}
