// Package memory provides the authoritative in-memory store.
// All entity state lives in one Store guarded by a single RWMutex; writes
// run inside copy-on-begin transactions so a failing operation leaves no
// partial state behind. The store can be dumped to and restored from a
// storage.Snapshot for persistence.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/batch"
	"meatledger/internal/domain/disposition"
	"meatledger/internal/domain/ledger"
	"meatledger/internal/domain/order"
	"meatledger/internal/infrastructure/storage"
)

var tracer = otel.Tracer("meatledger/internal/infrastructure/storage/memory")

// txKey marks a context as running inside a store transaction.
type txKey struct{}

type txInfo struct {
	readOnly bool
}

func txFromContext(ctx context.Context) (*txInfo, bool) {
	info, ok := ctx.Value(txKey{}).(*txInfo)
	return info, ok
}

// state is the complete mutable store content. Stored pointees are never
// mutated in place (repositories always store and return clones), so a
// transaction backup only needs to copy the maps, not their entries.
type state struct {
	batches      map[id.ID]*batch.Batch
	allocations  map[id.ID]*ledger.AllocationRecord
	allocByBatch map[id.ID]id.ID
	dispositions map[id.ID]*disposition.Record
	orders       map[id.ID]*order.Order

	// activities is most-recent-first, capped at activity.MaxEntries
	activities []activity.Entry

	sequences map[string]int64
}

func newState() *state {
	return &state{
		batches:      make(map[id.ID]*batch.Batch),
		allocations:  make(map[id.ID]*ledger.AllocationRecord),
		allocByBatch: make(map[id.ID]id.ID),
		dispositions: make(map[id.ID]*disposition.Record),
		orders:       make(map[id.ID]*order.Order),
		sequences:    make(map[string]int64),
	}
}

func (st *state) clone() *state {
	cp := &state{
		batches:      make(map[id.ID]*batch.Batch, len(st.batches)),
		allocations:  make(map[id.ID]*ledger.AllocationRecord, len(st.allocations)),
		allocByBatch: make(map[id.ID]id.ID, len(st.allocByBatch)),
		dispositions: make(map[id.ID]*disposition.Record, len(st.dispositions)),
		orders:       make(map[id.ID]*order.Order, len(st.orders)),
		activities:   make([]activity.Entry, len(st.activities)),
		sequences:    make(map[string]int64, len(st.sequences)),
	}
	for k, v := range st.batches {
		cp.batches[k] = v
	}
	for k, v := range st.allocations {
		cp.allocations[k] = v
	}
	for k, v := range st.allocByBatch {
		cp.allocByBatch[k] = v
	}
	for k, v := range st.dispositions {
		cp.dispositions[k] = v
	}
	for k, v := range st.orders {
		cp.orders[k] = v
	}
	copy(cp.activities, st.activities)
	for k, v := range st.sequences {
		cp.sequences[k] = v
	}
	return cp
}

// Store holds all ledger state and implements tx.ReadOnlyManager and
// numerator.SequenceStore.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// RunInTransaction executes fn under the store write lock. The state is
// backed up before fn runs; any error restores the backup, so fn's changes
// are all-or-nothing. Nested calls reuse the outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if info, ok := txFromContext(ctx); ok {
		if info.readOnly {
			return apperror.NewInternal(errors.New("write transaction started inside read-only transaction"))
		}
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "memory.transaction",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, &txInfo{})); err != nil {
		s.state = backup
		span.RecordError(err)
		return err
	}
	return nil
}

// ReadOnly executes fn under the store read lock. Readers see a consistent
// state: no write can interleave while fn runs.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "memory.readonly",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(context.WithValue(ctx, txKey{}, &txInfo{readOnly: true}))
}

// read runs fn against current state, taking the read lock unless the
// context already carries a transaction.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(s.state)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// write runs fn against current state inside a transaction, starting one
// if the context does not already carry it.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if info, ok := txFromContext(ctx); ok {
		if info.readOnly {
			return apperror.NewInternal(errors.New("write attempted inside read-only transaction"))
		}
		return fn(s.state)
	}
	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		return fn(s.state)
	})
}

// NextValue atomically advances a named sequence. Implements
// numerator.SequenceStore; sequence state participates in transactions and
// snapshots like any other entity.
func (s *Store) NextValue(ctx context.Context, key string, increment int64) (int64, error) {
	if increment <= 0 {
		increment = 1
	}
	var next int64
	err := s.write(ctx, func(st *state) error {
		st.sequences[key] += increment
		next = st.sequences[key]
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Snapshot returns a deep, deterministic copy of the full store state.
func (s *Store) Snapshot() *storage.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	snap := &storage.Snapshot{
		Batches:      make([]*batch.Batch, 0, len(st.batches)),
		Allocations:  make([]*ledger.AllocationRecord, 0, len(st.allocations)),
		Dispositions: make([]*disposition.Record, 0, len(st.dispositions)),
		Orders:       make([]*order.Order, 0, len(st.orders)),
		Activities:   make([]activity.Entry, len(st.activities)),
		Sequences:    make(map[string]int64, len(st.sequences)),
		SavedAt:      time.Now().UTC(),
	}

	for _, b := range st.batches {
		snap.Batches = append(snap.Batches, b.Clone())
	}
	sortByID(snap.Batches, func(b *batch.Batch) id.ID { return b.ID })

	for _, r := range st.allocations {
		snap.Allocations = append(snap.Allocations, r.Clone())
	}
	sortByID(snap.Allocations, func(r *ledger.AllocationRecord) id.ID { return r.ID })

	for _, r := range st.dispositions {
		cp := *r
		snap.Dispositions = append(snap.Dispositions, &cp)
	}
	sortByID(snap.Dispositions, func(r *disposition.Record) id.ID { return r.ID })

	for _, o := range st.orders {
		snap.Orders = append(snap.Orders, o.Clone())
	}
	sortByID(snap.Orders, func(o *order.Order) id.ID { return o.ID })

	copy(snap.Activities, st.activities)
	for k, v := range st.sequences {
		snap.Sequences[k] = v
	}
	return snap
}

// Restore replaces the full store state from a snapshot. A nil snapshot
// resets to empty.
func (s *Store) Restore(snap *storage.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := newState()
	if snap == nil {
		s.state = st
		return nil
	}

	for _, b := range snap.Batches {
		st.batches[b.ID] = b.Clone()
	}
	for _, r := range snap.Allocations {
		if err := r.CheckInvariant(); err != nil {
			return err
		}
		st.allocations[r.ID] = r.Clone()
		st.allocByBatch[r.BatchID] = r.ID
	}
	for _, r := range snap.Dispositions {
		cp := *r
		st.dispositions[r.ID] = &cp
	}
	for _, o := range snap.Orders {
		st.orders[o.ID] = o.Clone()
	}

	st.activities = make([]activity.Entry, len(snap.Activities))
	copy(st.activities, snap.Activities)
	if len(st.activities) > activity.MaxEntries {
		st.activities = st.activities[:activity.MaxEntries]
	}

	for k, v := range snap.Sequences {
		st.sequences[k] = v
	}

	s.state = st
	return nil
}
