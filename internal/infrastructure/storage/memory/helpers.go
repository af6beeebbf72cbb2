package memory

import (
	"sort"

	"meatledger/internal/core/id"
)

// sortByID orders items by ID string, oldest first. IDs are UUIDv7, so
// lexicographic order is creation order.
func sortByID[T any](items []T, key func(T) id.ID) {
	sort.Slice(items, func(i, j int) bool {
		return key(items[i]).String() < key(items[j]).String()
	})
}

// sortNewestFirst orders items by ID string, newest first.
func sortNewestFirst[T any](items []T, key func(T) id.ID) {
	sort.Slice(items, func(i, j int) bool {
		return key(items[i]).String() > key(items[j]).String()
	})
}

// paginate applies offset and limit to an already-sorted slice.
// Zero limit means no limit.
func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
