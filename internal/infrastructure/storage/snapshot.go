// Package storage defines the persistence contract for the allocation core.
// The core never assumes a specific backing technology: it depends only on
// being given a snapshot load/save pair.
package storage

import (
	"context"
	"time"

	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/batch"
	"meatledger/internal/domain/disposition"
	"meatledger/internal/domain/ledger"
	"meatledger/internal/domain/order"
)

// Snapshot is the full serializable store state, keyed by entity kind.
type Snapshot struct {
	Batches      []*batch.Batch             `json:"batches"`
	Allocations  []*ledger.AllocationRecord `json:"allocations"`
	Dispositions []*disposition.Record      `json:"dispositions"`
	Orders       []*order.Order             `json:"orders"`
	Activities   []activity.Entry           `json:"activities"`
	Sequences    map[string]int64           `json:"sequences"`

	SavedAt time.Time `json:"savedAt"`
}

// Snapshotter persists and restores store snapshots.
type Snapshotter interface {
	// SaveSnapshot persists the snapshot, replacing any previous one.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LoadSnapshot returns the last saved snapshot, or nil if none exists.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}
