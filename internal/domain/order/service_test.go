package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
	"meatledger/internal/domain/activity"
	"meatledger/internal/domain/order"
	"meatledger/internal/infrastructure/storage/memory"
	"meatledger/pkg/numerator"
)

func newService(t *testing.T) *order.Service {
	t.Helper()
	store := memory.NewStore()
	num := numerator.New(store)
	activityService := activity.NewService(memory.NewActivityRepository(store), num)
	return order.NewService(memory.NewOrderRepository(store), store, num, activityService)
}

func TestCreateStartsPending(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.Input{
		Requester: "City Butchers",
		GoodsType: "beef",
		Quantity:  types.NewQuantityFromFloat64(25),
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Contains(t, o.Number, "ORD-")
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, order.Input{
		Requester: "",
		GoodsType: "beef",
		Quantity:  types.NewQuantityFromFloat64(25),
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestTransitionFullLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.Input{
		Requester: "City Butchers",
		GoodsType: "beef",
		Quantity:  types.NewQuantityFromFloat64(25),
	})
	require.NoError(t, err)

	o, err = svc.Transition(ctx, o.ID, order.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, o.Status)

	o, err = svc.Transition(ctx, o.ID, order.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, o.Status)

	// Terminal: no way out
	_, err = svc.Transition(ctx, o.ID, order.StatusPending)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))

	// And the stored order is untouched by the rejected transition
	got, err := svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)
}

func TestTransitionSkippingProcessingRejected(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.Input{
		Requester: "Grand Hotel",
		GoodsType: "mutton",
		Quantity:  types.NewQuantityFromFloat64(10),
	})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, o.ID, order.StatusCompleted)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Transition(ctx, id.New(), order.StatusProcessing)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListFilters(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, order.Input{
		Requester: "City Butchers",
		GoodsType: "beef",
		Quantity:  types.NewQuantityFromFloat64(25),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, order.Input{
		Requester: "Grand Hotel",
		GoodsType: "mutton",
		Quantity:  types.NewQuantityFromFloat64(10),
	})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, first.ID, order.StatusCancelled)
	require.NoError(t, err)

	pending, err := svc.List(ctx, order.ListFilter{Statuses: []order.Status{order.StatusPending}})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Grand Hotel", pending[0].Requester)

	byRequester, err := svc.List(ctx, order.ListFilter{Requester: "City Butchers"})
	require.NoError(t, err)
	require.Len(t, byRequester, 1)
	assert.Equal(t, order.StatusCancelled, byRequester[0].Status)
}
