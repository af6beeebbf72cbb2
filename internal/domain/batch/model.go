// Package batch provides the batch registry: acquisition records that
// establish the initial quantity of a lot of goods.
package batch

import (
	"context"
	"time"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
)

// Kind defines how a batch was acquired.
type Kind string

const (
	// KindPurchase - goods bought from a seller
	KindPurchase Kind = "purchase"
	// KindSlaughterOutput - goods produced by a slaughter event
	KindSlaughterOutput Kind = "slaughter-output"
)

// Valid reports whether the kind is one of the known acquisition kinds.
func (k Kind) Valid() bool {
	return k == KindPurchase || k == KindSlaughterOutput
}

// NumberPrefix returns the record-number prefix for this kind.
func (k Kind) NumberPrefix() string {
	if k == KindPurchase {
		return "PUR"
	}
	return "BAT"
}

// Batch represents one acquired lot of physical goods.
// Acquisition facts are immutable history: a batch is never updated or
// deleted, only referenced by allocation and disposition records.
type Batch struct {
	ID     id.ID  `json:"id"`
	Number string `json:"number"`
	Kind   Kind   `json:"kind"`

	// SourceName is the seller or slaughterhouse the goods came from.
	SourceName string `json:"sourceName"`

	// GoodsType is the product classification (e.g., "beef", "mutton").
	GoodsType string `json:"goodsType"`

	// InitialQuantity is the acquired quantity; always positive.
	InitialQuantity types.Quantity `json:"initialQuantity"`

	// UnitAcquisitionCost is the per-unit purchase cost, the basis for
	// margin calculation at disposition time.
	UnitAcquisitionCost types.Money `json:"unitAcquisitionCost"`

	AcquisitionDate time.Time `json:"acquisitionDate"`

	// Attributes stores free-form descriptive fields (breed, animal type, ...).
	Attributes map[string]any `json:"attributes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// AcquisitionFacts is the ingest contract for creating a batch.
type AcquisitionFacts struct {
	Kind                Kind
	SourceName          string
	GoodsType           string
	InitialQuantity     types.Quantity
	UnitAcquisitionCost types.Money
	AcquisitionDate     time.Time
	Attributes          map[string]any
}

// New creates a Batch from acquisition facts with a generated ID.
// The record number is assigned by the service.
func New(facts AcquisitionFacts) *Batch {
	acquired := facts.AcquisitionDate
	if acquired.IsZero() {
		acquired = time.Now().UTC()
	}
	return &Batch{
		ID:                  id.New(),
		Kind:                facts.Kind,
		SourceName:          facts.SourceName,
		GoodsType:           facts.GoodsType,
		InitialQuantity:     facts.InitialQuantity,
		UnitAcquisitionCost: facts.UnitAcquisitionCost,
		AcquisitionDate:     acquired,
		Attributes:          facts.Attributes,
		CreatedAt:           time.Now().UTC(),
	}
}

// Clone returns a copy safe to hand to readers.
func (b *Batch) Clone() *Batch {
	cp := *b
	if b.Attributes != nil {
		cp.Attributes = make(map[string]any, len(b.Attributes))
		for k, v := range b.Attributes {
			cp.Attributes[k] = v
		}
	}
	return &cp
}

// Validate checks batch invariants.
func (b *Batch) Validate(ctx context.Context) error {
	if !b.Kind.Valid() {
		return apperror.NewValidation("kind must be purchase or slaughter-output").
			WithDetail("field", "kind")
	}

	if b.SourceName == "" {
		return apperror.NewValidation("source name is required").
			WithDetail("field", "sourceName")
	}

	if b.GoodsType == "" {
		return apperror.NewValidation("goods type is required").
			WithDetail("field", "goodsType")
	}

	if !b.InitialQuantity.IsPositive() {
		return apperror.NewValidation("initial quantity must be positive").
			WithDetail("field", "initialQuantity").
			WithDetail("value", b.InitialQuantity.String())
	}

	if b.UnitAcquisitionCost.IsNegative() {
		return apperror.NewValidation("unit acquisition cost cannot be negative").
			WithDetail("field", "unitAcquisitionCost")
	}

	return nil
}
