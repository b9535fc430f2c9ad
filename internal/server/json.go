package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/snapguess/photoquiz/internal/game"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps domain and infrastructure failures to HTTP
// statuses: unknown ids are 404, invalid state transitions are 409, an
// exhausted catalog or a timed-out store is 503, anything else 500.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, game.ErrImageNotFound):
		writeError(w, http.StatusNotFound, "image not found")
	case errors.Is(err, game.ErrSessionFinished):
		writeError(w, http.StatusConflict, "session finished")
	case errors.Is(err, game.ErrRoundAlreadyScored):
		writeError(w, http.StatusConflict, "round already scored")
	case errors.Is(err, game.ErrSessionNotFinished):
		writeError(w, http.StatusConflict, "session not finished")
	case errors.Is(err, game.ErrCatalogExhausted):
		writeError(w, http.StatusServiceUnavailable, "not enough images available")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
