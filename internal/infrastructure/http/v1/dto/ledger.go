package dto

import (
	"time"

	"meatledger/internal/core/types"
	"meatledger/internal/domain/ledger"
)

// OpenAllocationRequest for opening an allocation record for a batch.
type OpenAllocationRequest struct {
	BatchID  string `json:"batchId" binding:"required"`
	Location string `json:"location"`
}

// QuantityMoveRequest for reserve and release operations.
type QuantityMoveRequest struct {
	Quantity types.Quantity `json:"quantity"`
}

// AllocationResponse contains allocation record fields plus the derived
// status.
type AllocationResponse struct {
	ID      string `json:"id"`
	BatchID string `json:"batchId"`

	TotalQuantity     types.Quantity `json:"totalQuantity"`
	AvailableQuantity types.Quantity `json:"availableQuantity"`
	ReservedQuantity  types.Quantity `json:"reservedQuantity"`
	ConsumedQuantity  types.Quantity `json:"consumedQuantity"`

	Status string `json:"status"`

	Location   string    `json:"location"`
	StoredDate time.Time `json:"storedDate"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FromAllocation creates AllocationResponse from an allocation record.
func FromAllocation(r *ledger.AllocationRecord) AllocationResponse {
	return AllocationResponse{
		ID:                r.ID.String(),
		BatchID:           r.BatchID.String(),
		TotalQuantity:     r.Total,
		AvailableQuantity: r.Available,
		ReservedQuantity:  r.Reserved,
		ConsumedQuantity:  r.Consumed,
		Status:            string(r.Status()),
		Location:          r.Location,
		StoredDate:        r.StoredDate,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// FromAllocations maps an allocation record list to responses.
func FromAllocations(records []*ledger.AllocationRecord) []AllocationResponse {
	out := make([]AllocationResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromAllocation(r))
	}
	return out
}
