// Package postgres persists store snapshots to PostgreSQL.
// Each entity kind is saved as one row of zstd-compressed JSON, so the
// durable shape mirrors the in-memory store section by section.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/compress/zstd"

	"meatledger/internal/infrastructure/storage"
)

const snapshotTable = "ledger_snapshots"

// Entity kind keys under which snapshot sections are stored.
const (
	kindBatches      = "batches"
	kindAllocations  = "allocations"
	kindDispositions = "dispositions"
	kindOrders       = "orders"
	kindActivities   = "activities"
	kindSequences    = "sequences"
)

// snapshotRow is one stored section.
type snapshotRow struct {
	EntityKind string    `db:"entity_kind"`
	Payload    []byte    `db:"payload"`
	SavedAt    time.Time `db:"saved_at"`
}

// SnapshotStore implements storage.Snapshotter on PostgreSQL.
type SnapshotStore struct {
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewSnapshotStore creates a snapshot store on an existing pool.
func NewSnapshotStore(pool *pgxpool.Pool) (*SnapshotStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &SnapshotStore{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			entity_kind TEXT PRIMARY KEY,
			payload     BYTEA NOT NULL,
			saved_at    TIMESTAMPTZ NOT NULL
		)
	`, snapshotTable)

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

// SaveSnapshot writes all sections in one database transaction, replacing
// any previous snapshot row per entity kind.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap *storage.Snapshot) error {
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	sections := []struct {
		kind string
		data any
	}{
		{kindBatches, snap.Batches},
		{kindAllocations, snap.Allocations},
		{kindDispositions, snap.Dispositions},
		{kindOrders, snap.Orders},
		{kindActivities, snap.Activities},
		{kindSequences, snap.Sequences},
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, section := range sections {
		raw, err := json.Marshal(section.data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", section.kind, err)
		}
		payload := s.encoder.EncodeAll(raw, nil)

		q := s.builder.
			Insert(snapshotTable).
			Columns("entity_kind", "payload", "saved_at").
			Values(section.kind, payload, savedAt).
			Suffix("ON CONFLICT (entity_kind) DO UPDATE SET payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at")

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("save %s: %w", section.kind, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSnapshot reads the last saved snapshot, or nil if nothing was saved.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	q := s.builder.
		Select("entity_kind", "payload", "saved_at").
		From(snapshotTable)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []snapshotRow
	if err := pgxscan.Select(ctx, s.pool, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	snap := &storage.Snapshot{}
	for _, row := range rows {
		raw, err := s.decoder.DecodeAll(row.Payload, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", row.EntityKind, err)
		}

		var dst any
		switch row.EntityKind {
		case kindBatches:
			dst = &snap.Batches
		case kindAllocations:
			dst = &snap.Allocations
		case kindDispositions:
			dst = &snap.Dispositions
		case kindOrders:
			dst = &snap.Orders
		case kindActivities:
			dst = &snap.Activities
		case kindSequences:
			dst = &snap.Sequences
		default:
			// Unknown sections from newer schema versions are skipped.
			continue
		}

		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", row.EntityKind, err)
		}
		if row.SavedAt.After(snap.SavedAt) {
			snap.SavedAt = row.SavedAt
		}
	}
	return snap, nil
}

// Close releases the compressor resources.
func (s *SnapshotStore) Close() {
	s.encoder.Close()
	s.decoder.Close()
}
