package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// errorResponse is the uniform error body: { "message": "..." }.
type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondServerError hides internal details behind a generic 500.
func respondServerError(w http.ResponseWriter, err error) {
	slog.Error("Request failed", "error", err)
	respondError(w, http.StatusInternalServerError, "Something went wrong!")
}

var errBadBody = errors.New("invalid request body")

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errBadBody
	}
	return nil
}
