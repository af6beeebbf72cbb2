package batch

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

// Service provides business operations for the batch registry.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
	activity  *activity.Service
}

// NewService creates a new batch registry service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service, act *activity.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
		activity:  act,
	}
}

// Create validates acquisition facts and registers a new batch.
// The batch is immutable once created.
func (s *Service) Create(ctx context.Context, facts AcquisitionFacts) (*Batch, error) {
	b := New(facts)

	if err := b.Validate(ctx); err != nil {
		return nil, err
	}

	cfg := numerator.DefaultConfig(b.Kind.NumberPrefix())
	number, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	b.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		return s.activity.Recordf(ctx, "batch %s registered: %s %s from %s",
			b.Number, b.InitialQuantity, b.GoodsType, b.SourceName)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "batch created",
		"id", b.ID,
		"number", b.Number,
		"kind", b.Kind,
		"quantity", b.InitialQuantity,
	)
	return b, nil
}

// GetByID retrieves a batch by ID.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	b, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, err
	}
	return b, nil
}

// List retrieves batches with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Batch, error) {
	return s.repo.List(ctx, filter)
}
