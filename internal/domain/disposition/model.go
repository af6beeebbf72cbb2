// Package disposition provides the disposition recorder: sale or shipment
// events that permanently consume ledger quantity and derive financials
// from the batch's acquisition price.
package disposition

import (
	"context"
	"time"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
)

// Source names the ledger pool a disposition draws from.
type Source string

const (
	// SourceAvailable draws directly from unreserved stock
	SourceAvailable Source = "available"
	// SourceReserved settles a prior reservation
	SourceReserved Source = "reserved"
)

// Valid reports whether the source names a known pool.
func (s Source) Valid() bool {
	return s == SourceAvailable || s == SourceReserved
}

// Record is a sale or shipment drawn against one allocation record.
// Created atomically with the ledger consume; immutable afterward.
type Record struct {
	ID     id.ID  `json:"id"`
	Number string `json:"number"`

	// AllocationID is a back-reference, not ownership.
	AllocationID id.ID `json:"allocationRecordId"`
	BatchID      id.ID `json:"batchId"`

	Buyer    string         `json:"buyerOrRecipient"`
	Quantity types.Quantity `json:"quantity"`
	Source   Source         `json:"source"`

	UnitSalePrice  types.Money `json:"unitSalePrice"`
	TotalSaleValue types.Money `json:"totalSaleValue"`

	// CostBasis is the acquisition-cost-derived value of the disposed
	// quantity; Margin = TotalSaleValue - CostBasis.
	CostBasis types.Money `json:"costBasis"`
	Margin    types.Money `json:"margin"`

	Date time.Time `json:"date"`
}

// Input is the ingest contract for recording a disposition.
type Input struct {
	AllocationID  id.ID
	Buyer         string
	Quantity      types.Quantity
	UnitSalePrice types.Money
	Source        Source
	Date          time.Time
}

// Validate checks input shape and ranges before the ledger is touched.
func (in Input) Validate(ctx context.Context) error {
	if id.IsNil(in.AllocationID) {
		return apperror.NewValidation("allocation id is required").
			WithDetail("field", "allocationRecordId")
	}

	if in.Buyer == "" {
		return apperror.NewValidation("buyer or recipient is required").
			WithDetail("field", "buyerOrRecipient")
	}

	if !in.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	if in.UnitSalePrice.IsNegative() {
		return apperror.NewValidation("unit sale price cannot be negative").
			WithDetail("field", "unitSalePrice")
	}

	if !in.Source.Valid() {
		return apperror.NewValidation("source must be available or reserved").
			WithDetail("field", "source")
	}

	return nil
}

// newRecord builds a disposition with financials derived from the batch's
// unit acquisition cost at the moment of disposal.
func newRecord(in Input, batchID id.ID, unitAcquisitionCost types.Money) *Record {
	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	qty := in.Quantity.Decimal()
	totalSale := in.UnitSalePrice.Mul(qty)
	costBasis := unitAcquisitionCost.Mul(qty)

	return &Record{
		ID:             id.New(),
		AllocationID:   in.AllocationID,
		BatchID:        batchID,
		Buyer:          in.Buyer,
		Quantity:       in.Quantity,
		Source:         in.Source,
		UnitSalePrice:  in.UnitSalePrice,
		TotalSaleValue: totalSale,
		CostBasis:      costBasis,
		Margin:         totalSale.Sub(costBasis),
		Date:           date,
	}
}
