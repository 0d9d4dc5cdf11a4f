// Package api provides HTTP API handlers for airmouse.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/airmouse/internal/app"
	"github.com/ayusman/airmouse/internal/config"
)

// Runtime is the running control loop as seen by the API.
type Runtime interface {
	Status() app.Status
	SetEnabled(enabled bool)
	Tuning() config.Tuning
	SetTuning(t config.Tuning) error
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
