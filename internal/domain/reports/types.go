// Package reports provides read-only summaries over the allocation core.
package reports

import (
	"meatledger/internal/core/types"
)

// RequesterVolume names the requester with the highest ordered quantity.
type RequesterVolume struct {
	Requester string         `json:"requester"`
	Volume    types.Quantity `json:"volume"`
}

// Summary is the combined dashboard projection.
// All fields are recomputed from current store state on each call.
type Summary struct {
	TotalAvailableStock types.Quantity  `json:"totalAvailableStock"`
	TotalRevenue        types.Money     `json:"totalRevenue"`
	AverageSalePrice    types.Money     `json:"averageSalePrice"`
	TopRequester        RequesterVolume `json:"topRequesterByVolume"`
	PendingOrderCount   int             `json:"pendingOrderCount"`
}
