package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/calebmorris/trade-journal/internal/prefs"
)

// Preference documents are small id lists; anything near this limit is a
// client bug.
const maxPreferenceBytes = 64 * 1024

// GetPreferences handles GET /preferences/{category}?user_id=
// An unset preference responds 204; the frontend falls back to catalog
// defaults.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	if h.prefs == nil {
		http.Error(w, "preferences unavailable", http.StatusServiceUnavailable)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	raw, err := h.prefs.Load(r.Context(), userID, mux.Vars(r)["category"])
	if err != nil {
		if errors.Is(err, prefs.ErrInvalidCategory) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if raw == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// PutPreferences handles PUT /preferences/{category}?user_id=
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	if h.prefs == nil {
		http.Error(w, "preferences unavailable", http.StatusServiceUnavailable)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPreferenceBytes))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "request body must be valid JSON", http.StatusBadRequest)
		return
	}

	if err := h.prefs.Save(r.Context(), userID, mux.Vars(r)["category"], body); err != nil {
		if errors.Is(err, prefs.ErrInvalidCategory) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
