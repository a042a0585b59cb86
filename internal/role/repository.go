// Package role answers whether a user holds elevated privilege. The lookup
// is authoritative for authorization decisions; callers must treat any error
// as "not admin".
package role

import (
	"context"

	"github.com/google/uuid"
)

// Admin is the only elevated role the application recognizes.
const Admin = "admin"

// Repository provides role lookups against the backing store.
type Repository interface {
	// IsAdmin reports whether the user is explicitly marked admin.
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}
