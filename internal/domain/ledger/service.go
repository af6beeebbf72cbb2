package ledger

import (
	"context"
	"fmt"
	"sync"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/tx"
	"meatledger/internal/core/types"
	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/batch"
	"meatledger/pkg/logger"
)

// Service provides the allocation core: reserve, release, and consume
// operations over allocation records.
//
// Mutating operations on a given allocation are total-order serialized via
// a per-allocation lock; each runs inside a single transaction. A
// reservation either fully succeeds or fully fails - there is no partial
// reservation or queueing.
type Service struct {
	repo      Repository
	batches   batch.Repository
	txManager tx.Manager
	activity  *activity.Service

	mu    sync.Mutex
	locks map[id.ID]*sync.Mutex
}

// NewService creates a new storage ledger service.
func NewService(repo Repository, batches batch.Repository, txManager tx.Manager, act *activity.Service) *Service {
	return &Service{
		repo:      repo,
		batches:   batches,
		txManager: txManager,
		activity:  act,
		locks:     make(map[id.ID]*sync.Mutex),
	}
}

// LockAllocation acquires the serialization lock for an allocation and
// returns the unlock function. Used by the disposition recorder to hold the
// lock across its whole consume+record transaction.
func (s *Service) LockAllocation(allocationID id.ID) func() {
	s.mu.Lock()
	lock, ok := s.locks[allocationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[allocationID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// OpenAllocation opens the allocation record for a batch entering storage.
// Seeds the full initial quantity as available.
func (s *Service) OpenAllocation(ctx context.Context, batchID id.ID, location string) (*AllocationRecord, error) {
	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, err
	}

	record := NewAllocationRecord(b.ID, b.InitialQuantity, location)

	unlock := s.LockAllocation(batchID)
	defer unlock()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsForBatch(ctx, batchID)
		if err != nil {
			return fmt.Errorf("check existing allocation: %w", err)
		}
		if exists {
			return apperror.NewDuplicateAllocation(batchID.String())
		}

		if err := record.CheckInvariant(); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, record); err != nil {
			return fmt.Errorf("create allocation: %w", err)
		}
		return s.activity.Recordf(ctx, "allocation opened for batch %s: %s at %s",
			b.Number, record.Total, record.Location)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "allocation opened",
		"id", record.ID,
		"batch_id", batchID,
		"total", record.Total,
		"location", location,
	)
	return record.Clone(), nil
}

// Reserve moves qty from the available pool to the reserved pool.
func (s *Service) Reserve(ctx context.Context, allocationID id.ID, qty types.Quantity) (*AllocationRecord, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	unlock := s.LockAllocation(allocationID)
	defer unlock()

	var result *AllocationRecord
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		record, err := s.getForUpdate(ctx, allocationID)
		if err != nil {
			return err
		}

		if qty > record.Available {
			return apperror.NewInsufficientStock(allocationID.String(), qty.String(), record.Available.String())
		}

		record.Available -= qty
		record.Reserved += qty
		record.Touch()

		if err := s.assertInvariant(ctx, record); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, record); err != nil {
			return fmt.Errorf("update allocation: %w", err)
		}
		result = record
		return s.activity.Recordf(ctx, "reserved %s on allocation %s", qty, allocationID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quantity reserved",
		"allocation_id", allocationID,
		"quantity", qty,
		"status", result.Status(),
	)
	return result.Clone(), nil
}

// Release moves qty from the reserved pool back to available, the inverse
// of Reserve (e.g., a cancelled downstream order).
func (s *Service) Release(ctx context.Context, allocationID id.ID, qty types.Quantity) (*AllocationRecord, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	unlock := s.LockAllocation(allocationID)
	defer unlock()

	var result *AllocationRecord
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		record, err := s.getForUpdate(ctx, allocationID)
		if err != nil {
			return err
		}

		if qty > record.Reserved {
			return apperror.NewInvalidRelease(allocationID.String(), qty.String(), record.Reserved.String())
		}

		record.Reserved -= qty
		record.Available += qty
		record.Touch()

		if err := s.assertInvariant(ctx, record); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, record); err != nil {
			return fmt.Errorf("update allocation: %w", err)
		}
		result = record
		return s.activity.Recordf(ctx, "released %s on allocation %s", qty, allocationID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reservation released",
		"allocation_id", allocationID,
		"quantity", qty,
		"status", result.Status(),
	)
	return result.Clone(), nil
}

// Consume moves qty out of either the available or the reserved pool into
// consumed. This is the quantity side of recording a disposition.
func (s *Service) Consume(ctx context.Context, allocationID id.ID, qty types.Quantity, fromReserved bool) (*AllocationRecord, error) {
	unlock := s.LockAllocation(allocationID)
	defer unlock()

	var result *AllocationRecord
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		record, err := s.ApplyConsume(ctx, allocationID, qty, fromReserved)
		if err != nil {
			return err
		}
		result = record
		return s.activity.Recordf(ctx, "consumed %s on allocation %s", qty, allocationID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quantity consumed",
		"allocation_id", allocationID,
		"quantity", qty,
		"from_reserved", fromReserved,
		"status", result.Status(),
	)
	return result.Clone(), nil
}

// ApplyConsume performs the consume quantity move without locking or
// opening a transaction. It is called during disposition recording within
// the recorder's transaction; the caller must hold the allocation lock via
// LockAllocation.
func (s *Service) ApplyConsume(ctx context.Context, allocationID id.ID, qty types.Quantity, fromReserved bool) (*AllocationRecord, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	record, err := s.getForUpdate(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	if fromReserved {
		if qty > record.Reserved {
			return nil, apperror.NewInsufficientStock(allocationID.String(), qty.String(), record.Reserved.String()).
				WithDetail("source", "reserved")
		}
		record.Reserved -= qty
	} else {
		if qty > record.Available {
			return nil, apperror.NewInsufficientStock(allocationID.String(), qty.String(), record.Available.String()).
				WithDetail("source", "available")
		}
		record.Available -= qty
	}
	record.Consumed += qty
	record.Touch()

	if err := s.assertInvariant(ctx, record); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update allocation: %w", err)
	}
	return record, nil
}

// GetByID retrieves an allocation record by ID.
func (s *Service) GetByID(ctx context.Context, allocationID id.ID) (*AllocationRecord, error) {
	record, err := s.repo.GetByID(ctx, allocationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("allocation", allocationID.String())
		}
		return nil, err
	}
	return record, nil
}

// GetByBatch retrieves the allocation record for a batch.
func (s *Service) GetByBatch(ctx context.Context, batchID id.ID) (*AllocationRecord, error) {
	record, err := s.repo.GetByBatch(ctx, batchID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("allocation", batchID.String())
		}
		return nil, err
	}
	return record, nil
}

// List retrieves allocation records with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*AllocationRecord, error) {
	return s.repo.List(ctx, filter)
}

// getForUpdate loads the record targeted by a mutation.
func (s *Service) getForUpdate(ctx context.Context, allocationID id.ID) (*AllocationRecord, error) {
	record, err := s.repo.GetByID(ctx, allocationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("allocation", allocationID.String())
		}
		return nil, err
	}
	return record, nil
}

// assertInvariant re-validates the ledger invariant after a quantity move.
// A breach rejects the mutation outright and is logged with full record
// state; it is never retried.
func (s *Service) assertInvariant(ctx context.Context, record *AllocationRecord) error {
	if err := record.CheckInvariant(); err != nil {
		logger.Error(ctx, "ledger invariant violated",
			"allocation_id", record.ID,
			"state", record.StateDetails(),
		)
		return err
	}
	return nil
}
