package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/batch"
	"meatledger/internal/domain/ledger"
)

func newTestBatch() *batch.Batch {
	return batch.New(batch.AcquisitionFacts{
		Kind:                batch.KindPurchase,
		SourceName:          "Hill Farm",
		GoodsType:           "beef",
		InitialQuantity:     types.NewQuantityFromFloat64(100),
		UnitAcquisitionCost: types.MustMoney("3.50"),
	})
}

func TestTransactionRollsBackOnError(t *testing.T) {
	store := NewStore()
	repo := NewBatchRepository(store)
	ctx := context.Background()

	b := newTestBatch()
	boom := errors.New("boom")

	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Create(ctx, b))

		// Visible inside the transaction
		_, getErr := repo.GetByID(ctx, b.ID)
		require.NoError(t, getErr)

		return boom
	})
	require.ErrorIs(t, err, boom)

	// Rolled back: the batch must not exist
	exists, err := repo.Exists(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTransactionCommits(t *testing.T) {
	store := NewStore()
	repo := NewBatchRepository(store)
	ctx := context.Background()

	b := newTestBatch()
	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, b)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "Hill Farm", got.SourceName)
}

func TestNestedTransactionReusesOuter(t *testing.T) {
	store := NewStore()
	repo := NewBatchRepository(store)
	ctx := context.Background()

	b1 := newTestBatch()
	b2 := newTestBatch()

	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, b1); err != nil {
			return err
		}
		// The inner call joins the outer transaction
		return store.RunInTransaction(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, b2)
		})
	})
	require.NoError(t, err)

	for _, b := range []*batch.Batch{b1, b2} {
		exists, err := repo.Exists(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	store := NewStore()
	repo := NewBatchRepository(store)
	ctx := context.Background()

	err := store.ReadOnly(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, newTestBatch())
	})
	require.Error(t, err)
}

func TestSequenceNextValue(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	v, err := store.NextValue(ctx, "BAT_2026", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = store.NextValue(ctx, "BAT_2026", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	// Independent keys do not interfere
	v, err = store.NextValue(ctx, "SAL_2026", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
}

func TestSequenceRollsBackWithTransaction(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		_, seqErr := store.NextValue(ctx, "ORD_2026", 1)
		require.NoError(t, seqErr)
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := store.NextValue(ctx, "ORD_2026", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "sequence advance inside a failed transaction is undone")
}

func TestActivityRingBound(t *testing.T) {
	store := NewStore()
	repo := NewActivityRepository(store)
	ctx := context.Background()

	for i := 1; i <= activity.MaxEntries+10; i++ {
		entry := activity.Entry{
			ID:          id.New(),
			Number:      fmt.Sprintf("ACT-2026-%05d", i),
			Description: fmt.Sprintf("event %d", i),
			Timestamp:   time.Now().UTC(),
		}
		require.NoError(t, repo.Record(ctx, entry))
	}

	entries, err := repo.Recent(ctx, activity.MaxEntries+10)
	require.NoError(t, err)
	require.Len(t, entries, activity.MaxEntries)

	// Most-recent-first, oldest ten discarded
	assert.Equal(t, "event 60", entries[0].Description)
	assert.Equal(t, "event 11", entries[len(entries)-1].Description)

	// Recent is restartable, not consuming
	again, err := repo.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, again, 5)
	assert.Equal(t, "event 60", again[0].Description)
}

func TestLedgerUpdateVersionConflict(t *testing.T) {
	store := NewStore()
	repo := NewLedgerRepository(store)
	ctx := context.Background()

	record := ledger.NewAllocationRecord(id.New(), types.NewQuantityFromFloat64(100), "")
	require.NoError(t, repo.Create(ctx, record))

	stale := record.Clone()

	fresh := record.Clone()
	fresh.Touch()
	require.NoError(t, repo.Update(ctx, fresh))

	// A writer holding the old version loses
	stale.Touch()
	err := repo.Update(ctx, stale)
	require.Error(t, err)
}

func TestDuplicateAllocationForBatch(t *testing.T) {
	store := NewStore()
	repo := NewLedgerRepository(store)
	ctx := context.Background()

	batchID := id.New()
	first := ledger.NewAllocationRecord(batchID, types.NewQuantityFromFloat64(10), "")
	require.NoError(t, repo.Create(ctx, first))

	second := ledger.NewAllocationRecord(batchID, types.NewQuantityFromFloat64(20), "")
	err := repo.Create(ctx, second)
	require.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewStore()
	batchRepo := NewBatchRepository(store)
	ledgerRepo := NewLedgerRepository(store)
	activityRepo := NewActivityRepository(store)
	ctx := context.Background()

	b := newTestBatch()
	require.NoError(t, batchRepo.Create(ctx, b))

	record := ledger.NewAllocationRecord(b.ID, b.InitialQuantity, "cold store 1")
	require.NoError(t, ledgerRepo.Create(ctx, record))

	require.NoError(t, activityRepo.Record(ctx, activity.Entry{
		ID:          id.New(),
		Number:      "ACT-2026-00001",
		Description: "batch registered",
		Timestamp:   time.Now().UTC(),
	}))

	_, err := store.NextValue(ctx, "BAT_2026", 1)
	require.NoError(t, err)

	snap := store.Snapshot()
	require.Len(t, snap.Batches, 1)
	require.Len(t, snap.Allocations, 1)
	require.Len(t, snap.Activities, 1)

	restored := NewStore()
	require.NoError(t, restored.Restore(snap))

	got, err := NewBatchRepository(restored).GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Number, got.Number)

	gotRecord, err := NewLedgerRepository(restored).GetByBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, gotRecord.ID)
	assert.Equal(t, record.Available, gotRecord.Available)

	// Sequence state survives: numbering continues without reuse
	v, err := restored.NextValue(ctx, "BAT_2026", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	store := NewStore()
	ledgerRepo := NewLedgerRepository(store)
	ctx := context.Background()

	record := ledger.NewAllocationRecord(id.New(), types.NewQuantityFromFloat64(10), "")
	require.NoError(t, ledgerRepo.Create(ctx, record))

	snap := store.Snapshot()
	snap.Allocations[0].Available = types.NewQuantityFromFloat64(999)

	err := NewStore().Restore(snap)
	require.Error(t, err)
}
