package dto

import (
	"time"

	"meatledger/internal/domain/activity"
)

// ActivityEntryResponse contains one activity log line.
type ActivityEntryResponse struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// FromActivityEntry creates ActivityEntryResponse from an entry.
func FromActivityEntry(e activity.Entry) ActivityEntryResponse {
	return ActivityEntryResponse{
		ID:          e.ID.String(),
		Number:      e.Number,
		Description: e.Description,
		Timestamp:   e.Timestamp,
	}
}

// FromActivityEntries maps an entry list to responses.
func FromActivityEntries(entries []activity.Entry) []ActivityEntryResponse {
	out := make([]ActivityEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromActivityEntry(e))
	}
	return out
}
