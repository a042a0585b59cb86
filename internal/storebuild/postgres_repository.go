package storebuild

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// GetByUserID retrieves the build belonging to a user.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Build, error) {
	query := `
		SELECT id, user_id, store_name, status, progress, created_at, updated_at
		FROM store_builds
		WHERE user_id = $1`

	var b Build
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&b.ID, &b.UserID, &b.StoreName, &b.Status, &b.Progress, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBuildNotFound
		}
		return nil, fmt.Errorf("querying store build: %w", err)
	}

	return &b, nil
}

// List retrieves all builds ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Build, error) {
	query := `
		SELECT id, user_id, store_name, status, progress, created_at, updated_at
		FROM store_builds
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing store builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		if err := rows.Scan(&b.ID, &b.UserID, &b.StoreName, &b.Status, &b.Progress, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning store build row: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating store build rows: %w", err)
	}

	if builds == nil {
		builds = []Build{}
	}

	return builds, nil
}

// DeleteByUserID removes a user's build. Absent rows are ignored.
func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM store_builds WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("deleting store build: %w", err)
	}
	return nil
}
