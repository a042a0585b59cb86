package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/middleware"
	"github.com/leoprim/ebutikpartner-sub001/internal/api/response"
	"github.com/leoprim/ebutikpartner-sub001/internal/api/validation"
	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
	"github.com/leoprim/ebutikpartner-sub001/internal/profile"
	"github.com/leoprim/ebutikpartner-sub001/internal/role"
	"github.com/leoprim/ebutikpartner-sub001/internal/storebuild"
)

// IdentityAdmin is the slice of the identity client the user endpoints need.
type IdentityAdmin interface {
	ListUsers(ctx context.Context) ([]identity.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	UpdateUser(ctx context.Context, id uuid.UUID, update identity.AdminUserUpdate) (*identity.User, error)
}

// UsersHandler handles the admin user-management API.
type UsersHandler struct {
	idp      IdentityAdmin
	profiles profile.Repository
	builds   storebuild.Repository
	roles    role.Repository
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(idp IdentityAdmin, profiles profile.Repository, builds storebuild.Repository, roles role.Repository) *UsersHandler {
	return &UsersHandler{idp: idp, profiles: profiles, builds: builds, roles: roles}
}

type userRow struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	IsPremium   bool   `json:"isPremium"`
}

type listUsersResponse struct {
	Success bool      `json:"success"`
	Users   []userRow `json:"users"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type bulkDeleteResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

type updateUserRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	IsPremium   *bool   `json:"isPremium"`
}

type updateUserResponse struct {
	Success bool    `json:"success"`
	User    userRow `json:"user"`
}

type checkResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// List handles GET /api/admin/users. Identity records are joined with the
// denormalized profile rows.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.idp.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Err(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		slog.Error("failed to list profiles", "error", err)
		response.Err(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	premium := make(map[uuid.UUID]bool, len(profiles))
	for _, p := range profiles {
		premium[p.ID] = p.IsPremium
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			ID:          u.ID.String(),
			Email:       u.Email,
			DisplayName: u.Metadata.DisplayName,
			AvatarURL:   u.Metadata.AvatarURL,
			IsPremium:   premium[u.ID],
		})
	}

	response.JSON(w, http.StatusOK, listUsersResponse{Success: true, Users: rows})
}

// Delete handles DELETE /api/admin/users/{id}. The auth user goes first;
// only after that succeeds are the profile row and build removed.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	if err := h.deleteOne(r.Context(), id); err != nil {
		slog.Error("failed to delete user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, successResponse{Success: true})
}

// BulkDelete handles POST /api/admin/users/delete. Deletion is sequential;
// the first failure stops the run and is reported, leaving earlier deletions
// in place. Re-invoking with the same ids finishes the remainder.
func (h *UsersHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if fieldErrors := validation.ValidateBulkDeleteRequest(req.IDs); len(fieldErrors) > 0 {
		response.ErrWithFields(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	deleted := 0
	for _, raw := range req.IDs {
		id, _ := uuid.Parse(raw) // already validated

		if err := h.deleteOne(r.Context(), id); err != nil {
			slog.Error("bulk delete stopped", "error", err, "id", id, "deleted", deleted)
			response.Err(w, http.StatusInternalServerError, err.Error())
			return
		}
		deleted++
	}

	response.JSON(w, http.StatusOK, bulkDeleteResponse{Success: true, Deleted: deleted})
}

// deleteOne removes one user from the identity provider and then its
// denormalized rows. A failed auth deletion leaves the profile row alone. The
// provider answering 404 means the auth user is already gone; the rows are
// still removed, so a bulk delete re-run after a mid-run failure finishes
// cleanly over ids it already processed.
func (h *UsersHandler) deleteOne(ctx context.Context, id uuid.UUID) error {
	if err := h.idp.DeleteUser(ctx, id); err != nil {
		var apiErr *identity.APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
			return fmt.Errorf("failed to delete user %s: %w", id, err)
		}
	}
	if err := h.profiles.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	if err := h.builds.DeleteByUserID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete store build for %s: %w", id, err)
	}
	return nil
}

// Update handles PATCH /api/admin/users/{id}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateUpdateUserRequest(validation.UpdateUserRequest{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		IsPremium:   req.IsPremium,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithFields(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	update := identity.AdminUserUpdate{Email: req.Email}
	if req.DisplayName != nil || req.AvatarURL != nil {
		meta := &identity.UserMetadata{}
		if req.DisplayName != nil {
			meta.DisplayName = *req.DisplayName
		}
		if req.AvatarURL != nil {
			meta.AvatarURL = *req.AvatarURL
		}
		update.Metadata = meta
	}

	updated, err := h.idp.UpdateUser(r.Context(), id, update)
	if err != nil {
		slog.Error("failed to update user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	// Keep the denormalized profile row in step with the identity record.
	isPremium := false
	if existing, err := h.profiles.GetByID(r.Context(), id); err == nil {
		isPremium = existing.IsPremium
	} else if !errors.Is(err, profile.ErrProfileNotFound) {
		slog.Error("failed to load profile", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if req.IsPremium != nil {
		isPremium = *req.IsPremium
	}

	p := &profile.Profile{ID: id, Email: updated.Email, IsPremium: isPremium}
	if err := h.profiles.Upsert(r.Context(), p); err != nil {
		slog.Error("failed to upsert profile", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	response.JSON(w, http.StatusOK, updateUserResponse{
		Success: true,
		User: userRow{
			ID:          updated.ID.String(),
			Email:       updated.Email,
			DisplayName: updated.Metadata.DisplayName,
			AvatarURL:   updated.Metadata.AvatarURL,
			IsPremium:   p.IsPremium,
		},
	})
}

// Check handles GET /api/admin/check, mirroring the guard's role lookup for
// client-side use. A lookup error answers false, never an error.
func (h *UsersHandler) Check(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.JSON(w, http.StatusOK, checkResponse{IsAdmin: false})
		return
	}

	isAdmin, err := h.roles.IsAdmin(r.Context(), user.ID)
	if err != nil {
		slog.Warn("role lookup failed; answering not admin", "error", err, "userId", user.ID)
		isAdmin = false
	}

	response.JSON(w, http.StatusOK, checkResponse{IsAdmin: isAdmin})
}
