package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresRepository là implementation của UserCounter trên PostgreSQL.
// Soft-deleted users (deleted_at IS NOT NULL) are never counted.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) UserCounter {
	return &postgresRepository{pool: pool}
}

// CountAll returns the total number of users.
func (r *postgresRepository) CountAll(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM users
		WHERE deleted_at IS NULL
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// CountCreatedBetween returns the number of users registered in [from, to].
func (r *postgresRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if from.After(to) {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM users
		WHERE deleted_at IS NULL
		  AND created_at >= $1
		  AND created_at <= $2
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count new users: %w", err)
	}
	return count, nil
}
