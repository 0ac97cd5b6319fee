package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"notable/internal/note"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCoreErr maps the note package's sentinel errors onto statuses.
// Anything unrecognized is a plain server error; store errors are never
// surfaced raw.
func writeCoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, note.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, note.ErrDuplicateName):
		http.Error(w, "duplicate name", http.StatusConflict)
	case errors.Is(err, note.ErrValidation):
		http.Error(w, "invalid input", http.StatusBadRequest)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
