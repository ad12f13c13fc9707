package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"customizer-shopify-layer/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps domain error types to HTTP status codes. Anything
// unclassified is a 500.
func statusFor(err error) int {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound
	}
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
