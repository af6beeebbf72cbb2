package memory

import (
	"context"

	"meatledger/internal/domain/activity"
)

// ActivityRepository implements activity.Repository against the in-memory
// store. Entries are kept most-recent-first, capped at activity.MaxEntries.
type ActivityRepository struct {
	store *Store
}

// NewActivityRepository creates an activity log repository.
func NewActivityRepository(store *Store) *ActivityRepository {
	return &ActivityRepository{store: store}
}

// Record prepends an entry, discarding the oldest beyond the retention bound.
func (r *ActivityRepository) Record(ctx context.Context, entry activity.Entry) error {
	return r.store.write(ctx, func(st *state) error {
		entries := make([]activity.Entry, 0, len(st.activities)+1)
		entries = append(entries, entry)
		entries = append(entries, st.activities...)
		if len(entries) > activity.MaxEntries {
			entries = entries[:activity.MaxEntries]
		}
		st.activities = entries
		return nil
	})
}

// Recent returns up to n entries, most-recent-first.
func (r *ActivityRepository) Recent(ctx context.Context, n int) ([]activity.Entry, error) {
	var result []activity.Entry
	err := r.store.read(ctx, func(st *state) error {
		if n > len(st.activities) {
			n = len(st.activities)
		}
		result = make([]activity.Entry, n)
		copy(result, st.activities[:n])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
