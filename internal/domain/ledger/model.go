// Package ledger provides the storage ledger: the mutable quantity state of
// each batch, split between available, reserved, and consumed pools.
package ledger

import (
	"time"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
)

// Status is the derived lifecycle state of an allocation record.
// It is never stored or settable: it is always computed from quantities,
// independent of how those quantities were reached.
type Status string

const (
	// StatusReceived - allocation opened, no quantity moved yet
	StatusReceived Status = "received"
	// StatusAvailable - some quantity remains available
	StatusAvailable Status = "available"
	// StatusReserved - nothing available, but reservations are outstanding
	StatusReserved Status = "reserved"
	// StatusSoldOut - nothing available and nothing reserved
	StatusSoldOut Status = "sold-out"
)

// AllocationRecord tracks how a batch's quantity is currently allocated.
// One record per batch; mutated only through reserve/release/consume and
// retained forever for audit.
//
// Invariant, held at all times:
//
//	Available + Reserved + Consumed == Total, all three >= 0
type AllocationRecord struct {
	ID      id.ID `json:"id"`
	BatchID id.ID `json:"batchId"`

	Total     types.Quantity `json:"totalQuantity"`
	Available types.Quantity `json:"availableQuantity"`
	Reserved  types.Quantity `json:"reservedQuantity"`
	Consumed  types.Quantity `json:"consumedQuantity"`

	Location   string    `json:"location"`
	StoredDate time.Time `json:"storedDate"`

	// Version for optimistic locking (incremented on each update)
	Version int `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewAllocationRecord opens an allocation for a batch, seeding the whole
// initial quantity as available.
func NewAllocationRecord(batchID id.ID, total types.Quantity, location string) *AllocationRecord {
	now := time.Now().UTC()
	return &AllocationRecord{
		ID:         id.New(),
		BatchID:    batchID,
		Total:      total,
		Available:  total,
		Reserved:   0,
		Consumed:   0,
		Location:   location,
		StoredDate: now,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Status derives the record status from its quantities.
func (r *AllocationRecord) Status() Status {
	switch {
	case r.Available == r.Total && r.Reserved == 0 && r.Consumed == 0:
		return StatusReceived
	case r.Available == 0 && r.Reserved == 0:
		return StatusSoldOut
	case r.Available == 0 && r.Reserved > 0:
		return StatusReserved
	default:
		return StatusAvailable
	}
}

// CheckInvariant re-asserts the ledger invariant. A breach means a logic
// bug, not user error: the caller must reject the mutation and surface the
// error loudly.
func (r *AllocationRecord) CheckInvariant() error {
	if r.Available < 0 || r.Reserved < 0 || r.Consumed < 0 ||
		r.Available+r.Reserved+r.Consumed != r.Total {
		return apperror.NewLedgerCorruption(r.ID.String(), r.StateDetails())
	}
	return nil
}

// StateDetails returns the full quantity state for corruption logging.
func (r *AllocationRecord) StateDetails() map[string]any {
	return map[string]any{
		"batch_id":  r.BatchID.String(),
		"total":     r.Total.String(),
		"available": r.Available.String(),
		"reserved":  r.Reserved.String(),
		"consumed":  r.Consumed.String(),
		"version":   r.Version,
	}
}

// Touch bumps version and update timestamp after a quantity move.
func (r *AllocationRecord) Touch() {
	r.Version++
	r.UpdatedAt = time.Now().UTC()
}

// Clone returns a copy safe to hand to readers.
func (r *AllocationRecord) Clone() *AllocationRecord {
	cp := *r
	return &cp
}
