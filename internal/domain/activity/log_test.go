package activity_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meatledger/internal/domain/activity"
	"meatledger/internal/infrastructure/storage/memory"
	"meatledger/pkg/numerator"
)

func newService(t *testing.T) *activity.Service {
	t.Helper()
	store := memory.NewStore()
	return activity.NewService(memory.NewActivityRepository(store), numerator.New(store))
}

func TestRecordAssignsIDAndNumber(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "batch BAT-2026-00001 registered"))

	entries, err := svc.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.NotEmpty(t, entries[0].ID)
	assert.Contains(t, entries[0].Number, "ACT-")
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestRecordRejectsEmptyDescription(t *testing.T) {
	svc := newService(t)
	require.Error(t, svc.Record(context.Background(), ""))
}

func TestRetentionBoundMostRecentFirst(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	total := activity.MaxEntries + 10
	for i := 1; i <= total; i++ {
		require.NoError(t, svc.Recordf(ctx, "event %d", i))
	}

	entries, err := svc.Recent(ctx, total)
	require.NoError(t, err)
	require.Len(t, entries, activity.MaxEntries)

	// Newest first, oldest overflow discarded
	assert.Equal(t, fmt.Sprintf("event %d", total), entries[0].Description)
	assert.Equal(t, fmt.Sprintf("event %d", total-activity.MaxEntries+1), entries[len(entries)-1].Description)
}

func TestRecentValidatesN(t *testing.T) {
	svc := newService(t)
	_, err := svc.Recent(context.Background(), 0)
	require.Error(t, err)
}
