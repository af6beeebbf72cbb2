package dto

import (
	"time"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
	"meatledger/internal/domain/disposition"
)

// RecordDispositionRequest for recording a sale or shipment.
type RecordDispositionRequest struct {
	AllocationID  string         `json:"allocationRecordId" binding:"required"`
	Buyer         string         `json:"buyerOrRecipient" binding:"required"`
	Quantity      types.Quantity `json:"quantity"`
	UnitSalePrice types.Money    `json:"unitSalePrice"`
	Source        string         `json:"source" binding:"required"`
	Date          time.Time      `json:"date"`
}

// ToInput converts the request to a disposition input.
func (r RecordDispositionRequest) ToInput() (disposition.Input, error) {
	allocationID, err := id.Parse(r.AllocationID)
	if err != nil {
		return disposition.Input{}, apperror.NewValidation("invalid allocation id").
			WithDetail("field", "allocationRecordId").
			WithDetail("value", r.AllocationID)
	}
	return disposition.Input{
		AllocationID:  allocationID,
		Buyer:         r.Buyer,
		Quantity:      r.Quantity,
		UnitSalePrice: r.UnitSalePrice,
		Source:        disposition.Source(r.Source),
		Date:          r.Date,
	}, nil
}

// DispositionResponse contains disposition record fields.
type DispositionResponse struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	AllocationID string `json:"allocationRecordId"`
	BatchID      string `json:"batchId"`

	Buyer    string         `json:"buyerOrRecipient"`
	Quantity types.Quantity `json:"quantity"`
	Source   string         `json:"source"`

	UnitSalePrice  types.Money `json:"unitSalePrice"`
	TotalSaleValue types.Money `json:"totalSaleValue"`
	CostBasis      types.Money `json:"costBasis"`
	Margin         types.Money `json:"margin"`

	Date time.Time `json:"date"`
}

// FromDisposition creates DispositionResponse from a disposition record.
func FromDisposition(r *disposition.Record) DispositionResponse {
	return DispositionResponse{
		ID:             r.ID.String(),
		Number:         r.Number,
		AllocationID:   r.AllocationID.String(),
		BatchID:        r.BatchID.String(),
		Buyer:          r.Buyer,
		Quantity:       r.Quantity,
		Source:         string(r.Source),
		UnitSalePrice:  r.UnitSalePrice,
		TotalSaleValue: r.TotalSaleValue,
		CostBasis:      r.CostBasis,
		Margin:         r.Margin,
		Date:           r.Date,
	}
}

// FromDispositions maps a disposition record list to responses.
func FromDispositions(records []*disposition.Record) []DispositionResponse {
	out := make([]DispositionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromDisposition(r))
	}
	return out
}
