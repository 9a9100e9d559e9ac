package catalogrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pillmein/supplement-advisor/internal/domain/recommend"
	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

// PostgresRepository reads supplement data with pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the adapter.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FetchCatalog loads the full supplement table. Any failure is fatal for the
// caller; a partial catalog must never feed index construction.
func (r *PostgresRepository) FetchCatalog(ctx context.Context) ([]recommend.SupplementRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, effects, ingredients, warnings
		FROM api_supplements
		ORDER BY id
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDataUnavailable, "supplement catalog query failed", err)
	}
	defer rows.Close()

	var records []recommend.SupplementRecord
	for rows.Next() {
		var rec recommend.SupplementRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Effects, &rec.Ingredients, &rec.Warnings); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDataUnavailable, "supplement catalog scan failed", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDataUnavailable, "supplement catalog read failed", err)
	}
	return records, nil
}

// FetchUserSupplements returns the products the user currently takes.
func (r *PostgresRepository) FetchUserSupplements(ctx context.Context, userID int64) ([]recommend.UserSupplement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT supplement_name, ingredients
		FROM user_supplements
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "user supplement query failed", err)
	}
	defer rows.Close()

	var supplements []recommend.UserSupplement
	for rows.Next() {
		var sup recommend.UserSupplement
		if err := rows.Scan(&sup.Name, &sup.Ingredients); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageError, "user supplement scan failed", err)
		}
		supplements = append(supplements, sup)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "user supplement read failed", err)
	}
	return supplements, nil
}

var _ recommend.CatalogRepository = (*PostgresRepository)(nil)
