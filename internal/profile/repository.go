package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when a profile row is not found.
var ErrProfileNotFound = errors.New("profile not found")

// Repository provides operations on the profiles table.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	// Delete removes a profile row. Deleting an absent row is not an error;
	// bulk user deletion re-invokes with the same ids after partial failure.
	Delete(ctx context.Context, id uuid.UUID) error
}
