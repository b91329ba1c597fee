package api

import (
	"encoding/json"
	"net/http"

	"booking-scraper/logger"
	apperrors "booking-scraper/pkg/errors"
)

// writeJSON serializes payload and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.LogError("api", err, "Failed to encode response")
	}
}

// writeError maps err through the error taxonomy and writes the error
// envelope.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.StatusFor(err), map[string]interface{}{
		"status": "error",
		"detail": err.Error(),
	})
}
