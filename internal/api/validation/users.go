package validation

import (
	"strings"

	"github.com/google/uuid"
)

// UpdateUserRequest mirrors the fields needed for update user validation.
type UpdateUserRequest struct {
	Email       *string
	DisplayName *string
	AvatarURL   *string
	IsPremium   *bool
}

// ValidateUpdateUserRequest validates the fields of an admin user update.
func ValidateUpdateUserRequest(req UpdateUserRequest) []FieldError {
	var errs []FieldError

	if req.Email == nil && req.DisplayName == nil && req.AvatarURL == nil && req.IsPremium == nil {
		errs = append(errs, FieldError{Field: "body", Message: "at least one field must be provided"})
		return errs
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			errs = append(errs, FieldError{Field: "email", Message: "email must not be empty"})
		} else if !strings.Contains(email, "@") {
			errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
		}
	}

	if req.DisplayName != nil && len(*req.DisplayName) > 255 {
		errs = append(errs, FieldError{Field: "displayName", Message: "displayName must be at most 255 characters"})
	}

	if req.AvatarURL != nil && len(*req.AvatarURL) > 2048 {
		errs = append(errs, FieldError{Field: "avatarUrl", Message: "avatarUrl must be at most 2048 characters"})
	}

	return errs
}

// ValidateBulkDeleteRequest validates the id list of a bulk user deletion.
func ValidateBulkDeleteRequest(ids []string) []FieldError {
	var errs []FieldError

	if len(ids) == 0 {
		errs = append(errs, FieldError{Field: "ids", Message: "ids must not be empty"})
		return errs
	}

	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			errs = append(errs, FieldError{Field: "ids", Message: "ids must contain valid UUIDs"})
			break
		}
	}

	return errs
}
