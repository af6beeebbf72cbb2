package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeStore is an in-memory SequenceStore counting calls per key.
type fakeStore struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]int64)}
}

func (f *fakeStore) NextValue(_ context.Context, key string, increment int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.values[key] += increment
	return f.values[key], nil
}

func TestGetNextNumber_Strict(t *testing.T) {
	store := newFakeStore()
	svc := New(store)
	ctx := context.Background()
	cfg := DefaultConfig("BAT")
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BAT-2026-00001" {
		t.Errorf("expected BAT-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BAT-2026-00002" {
		t.Errorf("expected BAT-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_YearScopesSequence(t *testing.T) {
	store := newFakeStore()
	svc := New(store)
	ctx := context.Background()
	cfg := DefaultConfig("SAL")

	y2026 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	y2027 := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	num, _ := svc.GetNextNumber(ctx, cfg, nil, y2026)
	if num != "SAL-2026-00001" {
		t.Errorf("expected SAL-2026-00001, got %s", num)
	}

	// A new year starts its own sequence
	num, _ = svc.GetNextNumber(ctx, cfg, nil, y2027)
	if num != "SAL-2027-00001" {
		t.Errorf("expected SAL-2027-00001, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	store := newFakeStore()
	svc := New(store)
	ctx := context.Background()
	cfg := DefaultConfig("ORD")
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00001" {
		t.Errorf("expected ORD-2026-00001, got %s", num)
	}
	if store.calls != 1 {
		t.Errorf("expected 1 store call, got %d", store.calls)
	}

	// Next 9 numbers come from the reserved range without store access
	for i := 2; i <= 10; i++ {
		num, err = svc.GetNextNumber(ctx, cfg, opts, period)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := fmt.Sprintf("ORD-2026-%05d", i)
		if num != want {
			t.Errorf("expected %s, got %s", want, num)
		}
	}
	if store.calls != 1 {
		t.Errorf("expected store calls to stay 1, got %d", store.calls)
	}

	// Range exhausted: next call reserves a fresh one
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00011" {
		t.Errorf("expected ORD-2026-00011, got %s", num)
	}
	if store.calls != 2 {
		t.Errorf("expected 2 store calls, got %d", store.calls)
	}
}

func TestParseNumber(t *testing.T) {
	if got := ParseNumber("BAT-2026-00042"); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := ParseNumber("ACT-00007"); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if got := ParseNumber("garbage"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}
