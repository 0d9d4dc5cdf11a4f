package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/store"
)

// SettingsHandler reads and writes the tuning. Accepted changes are persisted
// and handed to the running loop.
type SettingsHandler struct {
	store   *store.Store
	runtime Runtime
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(s *store.Store, rt Runtime) *SettingsHandler {
	return &SettingsHandler{store: s, runtime: rt}
}

// ServeHTTP handles /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.runtime.Tuning())
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.reset(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update handles PUT /api/settings with a JSON object of tuning keys.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req map[string]json.Number
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req) == 0 {
		writeError(w, http.StatusBadRequest, "No settings given")
		return
	}

	values := make(map[string]string, len(req))
	for k, v := range req {
		values[k] = v.String()
	}

	tuning, err := h.runtime.Tuning().Apply(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Settings().SetAll(values); err != nil {
		log.Printf("Failed to save settings: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	if err := h.runtime.SetTuning(tuning); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tuning)
}

// reset handles DELETE /api/settings: overrides are dropped and defaults apply.
func (h *SettingsHandler) reset(w http.ResponseWriter, r *http.Request) {
	defaults := config.Default().Tuning
	for key := range defaults.Values() {
		if err := h.store.Settings().Delete(key); err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to delete setting %s: %v", key, err)
			writeError(w, http.StatusInternalServerError, "Failed to reset settings")
			return
		}
	}
	if err := h.runtime.SetTuning(defaults); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, defaults)
}
