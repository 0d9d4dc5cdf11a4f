package api

import (
	"encoding/json"
	"net/http"
)

// StatusHandler reports the loop status and toggles pointer control.
type StatusHandler struct {
	runtime Runtime
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(rt Runtime) *StatusHandler {
	return &StatusHandler{runtime: rt}
}

type setStatusRequest struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET and PUT /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.runtime.Status())
	case http.MethodPut:
		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.runtime.SetEnabled(*req.Enabled)
		writeJSON(w, http.StatusOK, h.runtime.Status())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
