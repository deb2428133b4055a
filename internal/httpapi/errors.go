package httpapi

import (
	"encoding/json"
	"net/http"

	"assemblyd/internal/registry"
	"assemblyd/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusFor maps registry errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case registry.IsInvalidArgument(err):
		return http.StatusBadRequest
	case registry.IsObjectDisposed(err):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
