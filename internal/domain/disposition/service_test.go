package disposition_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/batch"
	"meatledger/internal/domain/disposition"
	"meatledger/internal/domain/ledger"
	"meatledger/internal/infrastructure/storage/memory"
	"meatledger/pkg/numerator"
)

type fixture struct {
	store        *memory.Store
	batches      *batch.Service
	ledger       *ledger.Service
	dispositions *disposition.Service
	activity     *activity.Service
}

// failingRepo wraps a disposition repository, failing every Create.
type failingRepo struct {
	disposition.Repository
}

func (f *failingRepo) Create(ctx context.Context, record *disposition.Record) error {
	return errors.New("simulated storage failure")
}

func newFixture(t *testing.T, repoWrap func(disposition.Repository) disposition.Repository) *fixture {
	t.Helper()

	store := memory.NewStore()
	num := numerator.New(store)
	activityService := activity.NewService(memory.NewActivityRepository(store), num)
	batchRepo := memory.NewBatchRepository(store)
	batchService := batch.NewService(batchRepo, store, num, activityService)
	ledgerService := ledger.NewService(memory.NewLedgerRepository(store), batchRepo, store, activityService)

	var dispositionRepo disposition.Repository = memory.NewDispositionRepository(store)
	if repoWrap != nil {
		dispositionRepo = repoWrap(dispositionRepo)
	}
	dispositionService := disposition.NewService(
		dispositionRepo, ledgerService, batchRepo, store, num, activityService,
	)

	return &fixture{
		store:        store,
		batches:      batchService,
		ledger:       ledgerService,
		dispositions: dispositionService,
		activity:     activityService,
	}
}

func (f *fixture) openAllocation(t *testing.T, quantity float64, unitCost string) *ledger.AllocationRecord {
	t.Helper()
	ctx := context.Background()

	b, err := f.batches.Create(ctx, batch.AcquisitionFacts{
		Kind:                batch.KindSlaughterOutput,
		SourceName:          "North Abattoir",
		GoodsType:           "mutton",
		InitialQuantity:     types.NewQuantityFromFloat64(quantity),
		UnitAcquisitionCost: types.MustMoney(unitCost),
	})
	require.NoError(t, err)

	record, err := f.ledger.OpenAllocation(ctx, b.ID, "cold store 2")
	require.NoError(t, err)
	return record
}

func TestRecordFromReservedSettlesReservation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	allocation := f.openAllocation(t, 100, "3.00")

	_, err := f.ledger.Reserve(ctx, allocation.ID, types.NewQuantityFromFloat64(40))
	require.NoError(t, err)

	record, err := f.dispositions.Record(ctx, disposition.Input{
		AllocationID:  allocation.ID,
		Buyer:         "City Butchers",
		Quantity:      types.NewQuantityFromFloat64(40),
		UnitSalePrice: types.MustMoney("5.00"),
		Source:        disposition.SourceReserved,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, record.Number)
	assert.Equal(t, allocation.BatchID, record.BatchID)
	assert.True(t, types.MustMoney("200").Equal(record.TotalSaleValue), record.TotalSaleValue.String())
	assert.True(t, types.MustMoney("120").Equal(record.CostBasis), record.CostBasis.String())
	assert.True(t, types.MustMoney("80").Equal(record.Margin), record.Margin.String())

	got, err := f.ledger.GetByID(ctx, allocation.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(60), got.Available)
	assert.Equal(t, types.Quantity(0), got.Reserved)
	assert.Equal(t, types.NewQuantityFromFloat64(40), got.Consumed)
	require.NoError(t, got.CheckInvariant())
}

func TestRecordFromAvailable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	allocation := f.openAllocation(t, 50, "2.50")

	record, err := f.dispositions.Record(ctx, disposition.Input{
		AllocationID:  allocation.ID,
		Buyer:         "Grand Hotel",
		Quantity:      types.NewQuantityFromFloat64(20),
		UnitSalePrice: types.MustMoney("4.00"),
		Source:        disposition.SourceAvailable,
	})
	require.NoError(t, err)
	assert.True(t, types.MustMoney("30").Equal(record.Margin), record.Margin.String())

	got, err := f.ledger.GetByID(ctx, allocation.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(30), got.Available)
	assert.Equal(t, types.NewQuantityFromFloat64(20), got.Consumed)
}

func TestRecordFromReservedRequiresReservation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	allocation := f.openAllocation(t, 50, "2.50")

	// Nothing reserved: drawing from the reserved pool must fail
	_, err := f.dispositions.Record(ctx, disposition.Input{
		AllocationID:  allocation.ID,
		Buyer:         "Grand Hotel",
		Quantity:      types.NewQuantityFromFloat64(10),
		UnitSalePrice: types.MustMoney("4.00"),
		Source:        disposition.SourceReserved,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
}

func TestRecordIsAtomic(t *testing.T) {
	f := newFixture(t, func(repo disposition.Repository) disposition.Repository {
		return &failingRepo{repo}
	})
	ctx := context.Background()
	allocation := f.openAllocation(t, 100, "3.00")

	_, err := f.dispositions.Record(ctx, disposition.Input{
		AllocationID:  allocation.ID,
		Buyer:         "City Butchers",
		Quantity:      types.NewQuantityFromFloat64(25),
		UnitSalePrice: types.MustMoney("5.00"),
		Source:        disposition.SourceAvailable,
	})
	require.Error(t, err)

	// The consume was rolled back with the failed insert
	got, err := f.ledger.GetByID(ctx, allocation.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(100), got.Available)
	assert.Equal(t, types.Quantity(0), got.Consumed)
	require.NoError(t, got.CheckInvariant())
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.dispositions.Record(ctx, disposition.Input{
		AllocationID:  id.New(),
		Buyer:         "",
		Quantity:      types.NewQuantityFromFloat64(5),
		UnitSalePrice: types.MustMoney("1.00"),
		Source:        disposition.SourceAvailable,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.dispositions.Record(ctx, disposition.Input{
		AllocationID:  id.New(),
		Buyer:         "Someone",
		Quantity:      types.NewQuantityFromFloat64(5),
		UnitSalePrice: types.MustMoney("1.00"),
		Source:        disposition.Source("warehouse"),
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestListByBuyer(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	allocation := f.openAllocation(t, 100, "3.00")

	for _, buyer := range []string{"City Butchers", "Grand Hotel", "City Butchers"} {
		_, err := f.dispositions.Record(ctx, disposition.Input{
			AllocationID:  allocation.ID,
			Buyer:         buyer,
			Quantity:      types.NewQuantityFromFloat64(10),
			UnitSalePrice: types.MustMoney("5.00"),
			Source:        disposition.SourceAvailable,
		})
		require.NoError(t, err)
	}

	records, err := f.dispositions.ListByBuyer(ctx, "City Butchers")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = f.dispositions.ListByBuyer(ctx, "")
	require.Error(t, err)
}
