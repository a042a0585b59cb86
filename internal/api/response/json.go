// Package response writes the JSON bodies the API routes return. Success
// payloads carry {"success": true, ...}; failures carry {"error": message}.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorBody is the wire shape of every API failure.
type errorBody struct {
	Error  string `json:"error"`
	Fields any    `json:"fields,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Err writes {"error": message} with the given status code.
func Err(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// ErrWithFields writes an error body with per-field validation details.
func ErrWithFields(w http.ResponseWriter, status int, message string, fields any) {
	JSON(w, status, errorBody{Error: message, Fields: fields})
}
