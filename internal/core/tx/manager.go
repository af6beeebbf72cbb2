// Package tx provides transaction management abstractions.
// This package defines interfaces that decouple domain logic from specific
// storage implementations, following the Dependency Inversion Principle.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Every mutating ledger operation (open-allocation, reserve, release,
// consume+disposition) runs inside exactly one transaction so that the
// quantity state, disposition records, and activity log can never diverge.
//
// Domain services depend on this interface, not concrete implementations.
// The in-memory implementation lives in infrastructure/storage/memory.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, all changes made by fn are rolled back.
	// If fn succeeds, the changes are committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Readers (aggregator, list queries) get snapshot semantics: they never
// observe a partially-updated allocation record.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
