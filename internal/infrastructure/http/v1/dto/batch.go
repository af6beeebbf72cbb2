package dto

import (
	"time"

	"meatledger/internal/core/types"
	"meatledger/internal/domain/batch"
)

// CreateBatchRequest for registering an acquired batch.
type CreateBatchRequest struct {
	Kind                string         `json:"kind" binding:"required"`
	SourceName          string         `json:"sourceName" binding:"required"`
	GoodsType           string         `json:"goodsType" binding:"required"`
	InitialQuantity     types.Quantity `json:"initialQuantity"`
	UnitAcquisitionCost types.Money    `json:"unitAcquisitionCost"`
	AcquisitionDate     time.Time      `json:"acquisitionDate"`
	Attributes          map[string]any `json:"attributes"`
}

// ToFacts converts the request to acquisition facts.
func (r CreateBatchRequest) ToFacts() batch.AcquisitionFacts {
	return batch.AcquisitionFacts{
		Kind:                batch.Kind(r.Kind),
		SourceName:          r.SourceName,
		GoodsType:           r.GoodsType,
		InitialQuantity:     r.InitialQuantity,
		UnitAcquisitionCost: r.UnitAcquisitionCost,
		AcquisitionDate:     r.AcquisitionDate,
		Attributes:          r.Attributes,
	}
}

// BatchResponse contains batch fields.
type BatchResponse struct {
	ID                  string         `json:"id"`
	Number              string         `json:"number"`
	Kind                string         `json:"kind"`
	SourceName          string         `json:"sourceName"`
	GoodsType           string         `json:"goodsType"`
	InitialQuantity     types.Quantity `json:"initialQuantity"`
	UnitAcquisitionCost types.Money    `json:"unitAcquisitionCost"`
	AcquisitionDate     time.Time      `json:"acquisitionDate"`
	Attributes          map[string]any `json:"attributes,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// FromBatch creates BatchResponse from a batch.
func FromBatch(b *batch.Batch) BatchResponse {
	return BatchResponse{
		ID:                  b.ID.String(),
		Number:              b.Number,
		Kind:                string(b.Kind),
		SourceName:          b.SourceName,
		GoodsType:           b.GoodsType,
		InitialQuantity:     b.InitialQuantity,
		UnitAcquisitionCost: b.UnitAcquisitionCost,
		AcquisitionDate:     b.AcquisitionDate,
		Attributes:          b.Attributes,
		CreatedAt:           b.CreatedAt,
	}
}

// FromBatches maps a batch list to responses.
func FromBatches(batches []*batch.Batch) []BatchResponse {
	out := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, FromBatch(b))
	}
	return out
}
