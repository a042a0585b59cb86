package role

import (
	"context"
	"fmt"

	"github.com/google/uuid"
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

// IsAdmin reports whether the user has an admin row in user_roles.
func (r *PostgresRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`

	var isAdmin bool
	if err := r.pool.QueryRow(ctx, query, userID, Admin).Scan(&isAdmin); err != nil {
		return false, fmt.Errorf("looking up role: %w", err)
	}

	return isAdmin, nil
}
