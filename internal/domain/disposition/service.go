package disposition

import (
	"context"
	"fmt"
	"time"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/tx"
	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/batch"
	"meatledger/internal/domain/ledger"
	"meatledger/pkg/logger"
	"meatledger/pkg/numerator"
)

// Service provides disposition recording.
//
// Recording is all-or-nothing: the ledger consume, the disposition insert,
// and the activity entry happen in one transaction, so no partial-quantity
// disposition record can survive a failed consume.
type Service struct {
	repo      Repository
	ledger    *ledger.Service
	batches   batch.Repository
	txManager tx.Manager
	numerator *numerator.Service
	activity  *activity.Service
}

// NewService creates a new disposition recorder.
func NewService(
	repo Repository,
	ledgerSvc *ledger.Service,
	batches batch.Repository,
	txManager tx.Manager,
	num *numerator.Service,
	act *activity.Service,
) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledgerSvc,
		batches:   batches,
		txManager: txManager,
		numerator: num,
		activity:  act,
	}
}

// Record consumes ledger quantity and writes the disposition atomically.
// Cost basis and margin are computed against the batch's unit acquisition
// cost at the moment of disposal.
func (s *Service) Record(ctx context.Context, in Input) (*Record, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SAL"), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}

	unlock := s.ledger.LockAllocation(in.AllocationID)
	defer unlock()

	var record *Record
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		allocation, err := s.ledger.ApplyConsume(ctx, in.AllocationID, in.Quantity, in.Source == SourceReserved)
		if err != nil {
			return err
		}

		b, err := s.batches.GetByID(ctx, allocation.BatchID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("batch", allocation.BatchID.String())
			}
			return err
		}

		record = newRecord(in, b.ID, b.UnitAcquisitionCost)
		record.Number = number

		if err := s.repo.Create(ctx, record); err != nil {
			return fmt.Errorf("create disposition: %w", err)
		}
		return s.activity.Recordf(ctx, "disposition %s: %s %s to %s",
			record.Number, record.Quantity, b.GoodsType, record.Buyer)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "disposition recorded",
		"id", record.ID,
		"number", record.Number,
		"allocation_id", record.AllocationID,
		"quantity", record.Quantity,
		"margin", record.Margin,
	)
	return record, nil
}

// GetByID retrieves a disposition record by ID.
func (s *Service) GetByID(ctx context.Context, recordID id.ID) (*Record, error) {
	record, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("disposition", recordID.String())
		}
		return nil, err
	}
	return record, nil
}

// ListByBatch retrieves dispositions drawn against a batch.
func (s *Service) ListByBatch(ctx context.Context, batchID id.ID) ([]*Record, error) {
	return s.repo.ListByBatch(ctx, batchID)
}

// ListByBuyer retrieves dispositions for a buyer.
func (s *Service) ListByBuyer(ctx context.Context, buyer string) ([]*Record, error) {
	if buyer == "" {
		return nil, apperror.NewValidation("buyer is required").
			WithDetail("field", "buyer")
	}
	return s.repo.ListByBuyer(ctx, buyer)
}

// List retrieves disposition records with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	return s.repo.List(ctx, filter)
}
