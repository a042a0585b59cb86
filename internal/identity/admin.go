package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// AdminUserUpdate carries the fields an administrator may change on a user
// record. Nil fields are left untouched.
type AdminUserUpdate struct {
	Email    *string       `json:"email,omitempty"`
	Metadata *UserMetadata `json:"user_metadata,omitempty"`
}

// ListUsers returns every user known to the identity provider.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var payload struct {
		Users []User `json:"users"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users", c.serviceKey, nil, &payload)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	if payload.Users == nil {
		payload.Users = []User{}
	}
	return payload.Users, nil
}

// DeleteUser removes a user record at the identity provider.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+id.String(), c.serviceKey, nil, nil)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}

// UpdateUser applies an admin-triggered update to a user record and returns
// the updated record.
func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, update AdminUserUpdate) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+id.String(), c.serviceKey, update, &user)
	if err != nil {
		return nil, fmt.Errorf("updating user %s: %w", id, err)
	}
	return &user, nil
}
