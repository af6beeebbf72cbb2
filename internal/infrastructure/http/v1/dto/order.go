package dto

import (
	"time"

	"meatledger/internal/core/types"
	"meatledger/internal/domain/order"
)

// CreateOrderRequest for submitting a demand order.
type CreateOrderRequest struct {
	Requester     string         `json:"requester" binding:"required"`
	GoodsType     string         `json:"goodsType" binding:"required"`
	Quantity      types.Quantity `json:"quantity"`
	RequiredDate  time.Time      `json:"requiredDate"`
	ExpectedPrice types.Money    `json:"expectedPrice"`
}

// ToInput converts the request to an order input.
func (r CreateOrderRequest) ToInput() order.Input {
	return order.Input{
		Requester:     r.Requester,
		GoodsType:     r.GoodsType,
		Quantity:      r.Quantity,
		RequiredDate:  r.RequiredDate,
		ExpectedPrice: r.ExpectedPrice,
	}
}

// TransitionOrderRequest for moving an order to a new status.
type TransitionOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderResponse contains order fields.
type OrderResponse struct {
	ID     string `json:"id"`
	Number string `json:"number"`

	Requester     string         `json:"requester"`
	GoodsType     string         `json:"goodsType"`
	Quantity      types.Quantity `json:"quantity"`
	RequiredDate  time.Time      `json:"requiredDate"`
	ExpectedPrice types.Money    `json:"expectedPrice"`

	Status string `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromOrder creates OrderResponse from an order.
func FromOrder(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID.String(),
		Number:        o.Number,
		Requester:     o.Requester,
		GoodsType:     o.GoodsType,
		Quantity:      o.Quantity,
		RequiredDate:  o.RequiredDate,
		ExpectedPrice: o.ExpectedPrice,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// FromOrders maps an order list to responses.
func FromOrders(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
