package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/internal/core/types"
)

func qty(s string) types.Quantity {
	q, err := types.NewQuantityFromString(s)
	if err != nil {
		panic(err)
	}
	return q
}

func TestNewAllocationRecordSeedsAvailable(t *testing.T) {
	batchID := id.New()
	r := NewAllocationRecord(batchID, qty("100"), "cold store 1")

	assert.Equal(t, batchID, r.BatchID)
	assert.Equal(t, qty("100"), r.Total)
	assert.Equal(t, qty("100"), r.Available)
	assert.Equal(t, types.Quantity(0), r.Reserved)
	assert.Equal(t, types.Quantity(0), r.Consumed)
	assert.Equal(t, 1, r.Version)
	require.NoError(t, r.CheckInvariant())
}

func TestStatusDerivation(t *testing.T) {
	tests := []struct {
		name                                  string
		total, available, reserved, consumed  string
		want                                  Status
	}{
		{"untouched", "100", "100", "0", "0", StatusReceived},
		{"partially reserved", "100", "60", "40", "0", StatusAvailable},
		{"partially consumed", "100", "60", "0", "40", StatusAvailable},
		{"fully reserved", "100", "0", "100", "0", StatusReserved},
		{"reserved and consumed", "100", "0", "40", "60", StatusReserved},
		{"sold out", "100", "0", "0", "100", StatusSoldOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &AllocationRecord{
				ID:        id.New(),
				BatchID:   id.New(),
				Total:     qty(tt.total),
				Available: qty(tt.available),
				Reserved:  qty(tt.reserved),
				Consumed:  qty(tt.consumed),
			}
			require.NoError(t, r.CheckInvariant())
			assert.Equal(t, tt.want, r.Status())
		})
	}
}

func TestStatusIndependentOfHistory(t *testing.T) {
	// Two records with identical quantities must derive the same status
	// regardless of how the quantities were reached.
	a := &AllocationRecord{Total: qty("50"), Available: qty("10"), Reserved: qty("20"), Consumed: qty("20")}
	b := &AllocationRecord{Total: qty("50"), Available: qty("10"), Reserved: qty("20"), Consumed: qty("20")}
	assert.Equal(t, a.Status(), b.Status())
}

func TestCheckInvariantViolations(t *testing.T) {
	tests := []struct {
		name                                 string
		total, available, reserved, consumed string
	}{
		{"sum below total", "100", "50", "20", "10"},
		{"sum above total", "100", "60", "40", "10"},
		{"negative available", "10", "-5", "10", "5"},
		{"negative reserved", "10", "15", "-5", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &AllocationRecord{
				ID:        id.New(),
				BatchID:   id.New(),
				Total:     qty(tt.total),
				Available: qty(tt.available),
				Reserved:  qty(tt.reserved),
				Consumed:  qty(tt.consumed),
			}
			err := r.CheckInvariant()
			require.Error(t, err)
			assert.True(t, apperror.IsLedgerCorruption(err))
		})
	}
}

func TestTouchBumpsVersion(t *testing.T) {
	r := NewAllocationRecord(id.New(), qty("10"), "")
	before := r.Version
	r.Touch()
	assert.Equal(t, before+1, r.Version)
}

func TestListFilterMatchesStatus(t *testing.T) {
	r := NewAllocationRecord(id.New(), qty("10"), "")

	assert.True(t, ListFilter{}.MatchesStatus(r))
	assert.True(t, ListFilter{Statuses: []Status{StatusReceived}}.MatchesStatus(r))
	assert.False(t, ListFilter{Statuses: []Status{StatusSoldOut}}.MatchesStatus(r))
}
