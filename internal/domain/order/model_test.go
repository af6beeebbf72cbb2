package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/types"
)

func TestTransitionClosure(t *testing.T) {
	all := []Status{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled, StatusRejected}

	legal := map[Status]map[Status]bool{
		StatusPending:    {StatusProcessing: true, StatusCancelled: true, StatusRejected: true},
		StatusProcessing: {StatusCompleted: true, StatusCancelled: true, StatusRejected: true},
	}

	// Every from/to pair outside the six legal edges must be rejected.
	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			want := legal[from][to]
			assert.Equal(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesAdmitNoExit(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusRejected} {
		assert.True(t, s.Terminal())
		for _, to := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled, StatusRejected} {
			assert.False(t, s.CanTransitionTo(to), "%s -> %s", s, to)
		}
	}
}

func TestTransitionIllegalEdge(t *testing.T) {
	o := New(Input{
		Requester: "City Butchers",
		GoodsType: "beef",
		Quantity:  types.NewQuantityFromFloat64(25),
	})
	require.Equal(t, StatusPending, o.Status)

	err := o.Transition(StatusCompleted)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
	assert.Equal(t, StatusPending, o.Status, "status unchanged after rejected transition")
}

func TestTransitionLegalPath(t *testing.T) {
	o := New(Input{
		Requester: "City Butchers",
		GoodsType: "beef",
		Quantity:  types.NewQuantityFromFloat64(25),
	})

	require.NoError(t, o.Transition(StatusProcessing))
	require.NoError(t, o.Transition(StatusCompleted))
	assert.True(t, o.Status.Terminal())

	err := o.Transition(StatusCancelled)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
}

func TestTransitionUnknownStatus(t *testing.T) {
	o := New(Input{
		Requester: "City Butchers",
		GoodsType: "beef",
		Quantity:  types.NewQuantityFromFloat64(25),
	})

	err := o.Transition(Status("shipped"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestValidate(t *testing.T) {
	valid := Input{
		Requester: "City Butchers",
		GoodsType: "beef",
		Quantity:  types.NewQuantityFromFloat64(25),
	}

	o := New(valid)
	require.NoError(t, o.Validate(context.Background()))

	missing := valid
	missing.Requester = ""
	require.Error(t, New(missing).Validate(context.Background()))

	nonPositive := valid
	nonPositive.Quantity = 0
	require.Error(t, New(nonPositive).Validate(context.Background()))

	negativePrice := valid
	negativePrice.ExpectedPrice = types.NewMoney(-1)
	require.Error(t, New(negativePrice).Validate(context.Background()))
}
