package storebuild

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrBuildNotFound is returned when a user has no store build.
var ErrBuildNotFound = errors.New("store build not found")

// Repository provides operations on the store_builds table.
type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Build, error)
	List(ctx context.Context) ([]Build, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
