// Package validation checks API request fields before any upstream call is
// made.
package validation

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
