package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the denormalized row kept alongside each identity-provider
// user. Its id always matches a live user id; the admin endpoints maintain
// that invariant manually, there is no enforced cascade.
type Profile struct {
	ID        uuid.UUID
	Email     string
	IsPremium bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
