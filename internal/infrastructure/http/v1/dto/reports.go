package dto

import (
	"meatledger/internal/core/types"
	"meatledger/internal/domain/reports"
)

// RequesterVolumeResponse names the top requester by ordered volume.
type RequesterVolumeResponse struct {
	Requester string         `json:"requester"`
	Volume    types.Quantity `json:"volume"`
}

// SummaryResponse contains all dashboard metrics.
type SummaryResponse struct {
	TotalAvailableStock types.Quantity          `json:"totalAvailableStock"`
	TotalRevenue        types.Money             `json:"totalRevenue"`
	AverageSalePrice    types.Money             `json:"averageSalePrice"`
	TopRequester        RequesterVolumeResponse `json:"topRequesterByVolume"`
	PendingOrderCount   int                     `json:"pendingOrderCount"`
}

// FromSummary creates SummaryResponse from an aggregator summary.
func FromSummary(s *reports.Summary) SummaryResponse {
	return SummaryResponse{
		TotalAvailableStock: s.TotalAvailableStock,
		TotalRevenue:        s.TotalRevenue,
		AverageSalePrice:    s.AverageSalePrice,
		TopRequester: RequesterVolumeResponse{
			Requester: s.TopRequester.Requester,
			Volume:    s.TopRequester.Volume,
		},
		PendingOrderCount: s.PendingOrderCount,
	}
}
