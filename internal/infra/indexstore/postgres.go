package indexstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pillmein/supplement-advisor/internal/domain/recommend"
)

// PostgresStore persists index snapshots in one table: the catalog row and
// its embedding live in the same record keyed by position, and the whole
// snapshot is replaced in a single transaction. A reader can therefore never
// observe records without their vectors or a mix of two snapshots.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the adapter.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save replaces the persisted snapshot.
func (s *PostgresStore) Save(ctx context.Context, snap recommend.Snapshot) error {
	if len(snap.Records) != len(snap.Vectors) {
		return fmt.Errorf("snapshot misaligned: %d records, %d vectors", len(snap.Records), len(snap.Vectors))
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM supplement_index_snapshot`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	for i, rec := range snap.Records {
		_, err := tx.Exec(ctx, `
			INSERT INTO supplement_index_snapshot (position, supplement_id, name, effects, ingredients, warnings, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, i, rec.ID, rec.Name, rec.Effects, rec.Ingredients, rec.Warnings, pgvector.NewVector(snap.Vectors[i]))
		if err != nil {
			return fmt.Errorf("insert snapshot row %d: %w", i, err)
		}
	}
	return tx.Commit(ctx)
}

// Load restores the persisted snapshot, reporting false when none exists.
func (s *PostgresStore) Load(ctx context.Context) (recommend.Snapshot, bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT position, supplement_id, name, effects, ingredients, warnings, embedding
		FROM supplement_index_snapshot
		ORDER BY position
	`)
	if err != nil {
		return recommend.Snapshot{}, false, fmt.Errorf("snapshot query: %w", err)
	}
	defer rows.Close()

	var snap recommend.Snapshot
	next := 0
	for rows.Next() {
		var (
			position int
			rec      recommend.SupplementRecord
			vec      pgvector.Vector
		)
		if err := rows.Scan(&position, &rec.ID, &rec.Name, &rec.Effects, &rec.Ingredients, &rec.Warnings, &vec); err != nil {
			return recommend.Snapshot{}, false, fmt.Errorf("snapshot scan: %w", err)
		}
		if position != next {
			return recommend.Snapshot{}, false, fmt.Errorf("snapshot gap at position %d", next)
		}
		next++
		snap.Records = append(snap.Records, rec)
		snap.Vectors = append(snap.Vectors, vec.Slice())
	}
	if err := rows.Err(); err != nil {
		return recommend.Snapshot{}, false, fmt.Errorf("snapshot read: %w", err)
	}
	if len(snap.Records) == 0 {
		return recommend.Snapshot{}, false, nil
	}
	return snap, true, nil
}

var _ recommend.SnapshotStore = (*PostgresStore)(nil)
