package surveyrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pillmein/supplement-advisor/internal/domain/survey"
)

// PostgresRepository loads user survey rows with pgx.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	columns []string
	query   string
}

// NewPostgresRepository constructs the adapter. The selected columns come
// from the survey registry so the repository and the decoder cannot drift.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	columns := survey.ColumnNames()
	query := fmt.Sprintf(
		"SELECT %s, COALESCE(health_purpose, '') FROM user_survey WHERE user_id = $1",
		strings.Join(columns, ", "),
	)
	return &PostgresRepository{pool: pool, columns: columns, query: query}
}

// FindByUser implements survey.Repository.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID int64) (survey.Row, bool, error) {
	values := make([]*string, len(r.columns))
	dest := make([]any, 0, len(r.columns)+1)
	for i := range values {
		dest = append(dest, &values[i])
	}
	var purpose string
	dest = append(dest, &purpose)

	err := r.pool.QueryRow(ctx, r.query, userID).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return survey.Row{}, false, nil
	}
	if err != nil {
		return survey.Row{}, false, err
	}

	answers := make(map[string]string, len(r.columns))
	for i, col := range r.columns {
		if values[i] != nil {
			answers[col] = *values[i]
		}
	}
	return survey.Row{Answers: answers, HealthPurpose: purpose}, true, nil
}

var _ survey.Repository = (*PostgresRepository)(nil)
