// Package activity provides the bounded, insertion-ordered audit trail.
// Every mutating operation elsewhere records a human-readable entry here;
// the store keeps only the most recent MaxEntries entries.
package activity

import (
	"context"
	"fmt"
	"time"

	"meatledger/internal/core/apperror"
	"meatledger/internal/core/id"
	"meatledger/pkg/numerator"
)

// MaxEntries is the retention bound of the activity log.
// On overflow the oldest entries are discarded.
const MaxEntries = 50

// Entry is one append-only log line.
type Entry struct {
	ID          id.ID     `json:"id"`
	Number      string    `json:"number"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Repository defines storage operations for the activity log.
// Implementations must keep entries most-recent-first and enforce the
// MaxEntries bound.
type Repository interface {
	// Record prepends an entry, truncating the oldest beyond MaxEntries
	Record(ctx context.Context, entry Entry) error

	// Recent returns up to n entries, most-recent-first.
	// A finite, restartable read - not a consuming stream.
	Recent(ctx context.Context, n int) ([]Entry, error)
}

// Service provides activity log operations.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new activity log service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

// Record prepends an entry with a generated id and current timestamp.
// Called by other services inside their mutating transaction so the log
// and the ledger can never diverge.
func (s *Service) Record(ctx context.Context, description string) error {
	if description == "" {
		return apperror.NewValidation("description is required").
			WithDetail("field", "description")
	}

	entry := Entry{
		ID:          id.New(),
		Description: description,
		Timestamp:   time.Now().UTC(),
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ACT"), nil, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("generate number: %w", err)
	}
	entry.Number = number

	return s.repo.Record(ctx, entry)
}

// Recordf records a formatted description.
func (s *Service) Recordf(ctx context.Context, format string, args ...any) error {
	return s.Record(ctx, fmt.Sprintf(format, args...))
}

// Recent returns the n most recent entries, most-recent-first.
func (s *Service) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, apperror.NewValidation("n must be positive").
			WithDetail("field", "n")
	}
	return s.repo.Recent(ctx, n)
}
