// Package order provides the order tracker: demand-side requests not yet
// tied to a specific batch, with an explicit status state machine.
package order

import (
	"context"
	"time"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// Valid reports whether the status is a known state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// transitions is the closed set of legal status edges.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusRejected},
	StatusProcessing: {StatusCompleted, StatusCancelled, StatusRejected},
}

// CanTransitionTo reports whether the edge s -> to is legal.
func (s Status) CanTransitionTo(to Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order is a demand request awaiting fulfillment.
type Order struct {
	ID     id.ID  `json:"id"`
	Number string `json:"number"`

	Requester     string         `json:"requester"`
	GoodsType     string         `json:"goodsType"`
	Quantity      types.Quantity `json:"quantity"`
	RequiredDate  time.Time      `json:"requiredDate"`
	ExpectedPrice types.Money    `json:"expectedPrice"`

	Status Status `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input is the ingest contract for order submission.
type Input struct {
	Requester     string
	GoodsType     string
	Quantity      types.Quantity
	RequiredDate  time.Time
	ExpectedPrice types.Money
}

// New creates a pending Order from submission input.
func New(in Input) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:            id.New(),
		Requester:     in.Requester,
		GoodsType:     in.GoodsType,
		Quantity:      in.Quantity,
		RequiredDate:  in.RequiredDate,
		ExpectedPrice: in.ExpectedPrice,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks order invariants.
func (o *Order) Validate(ctx context.Context) error {
	if o.Requester == "" {
		return apperror.NewValidation("requester is required").
			WithDetail("field", "requester")
	}

	if o.GoodsType == "" {
		return apperror.NewValidation("goods type is required").
			WithDetail("field", "goodsType")
	}

	if !o.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	if o.ExpectedPrice.IsNegative() {
		return apperror.NewValidation("expected price cannot be negative").
			WithDetail("field", "expectedPrice")
	}

	if !o.Status.Valid() {
		return apperror.NewValidation("unknown order status").
			WithDetail("field", "status")
	}

	return nil
}

// Transition moves the order to a new status if the edge is legal.
func (o *Order) Transition(to Status) error {
	if !to.Valid() {
		return apperror.NewValidation("unknown order status").
			WithDetail("field", "status").
			WithDetail("value", string(to))
	}
	if !o.Status.CanTransitionTo(to) {
		return apperror.NewInvalidTransition(o.ID.String(), string(o.Status), string(to))
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Clone returns a copy safe to hand to readers.
func (o *Order) Clone() *Order {
	cp := *o
	return &cp
}
