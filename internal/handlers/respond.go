// Package handlers holds the HTTP layer: request decoding, store calls, and
// JSON responses. No domain logic lives here.
package handlers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"whollycity/internal/logging"
	"whollycity/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps the store sentinels onto HTTP statuses, hiding the
// underlying error text from clients.
func writeStoreError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, storage.ErrVersionConflict):
		writeError(w, http.StatusConflict, "Record was modified by someone else. Reload and try again.")
	default:
		logging.Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
