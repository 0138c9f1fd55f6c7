// Package api provides HTTP handlers for the intake API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/clearpath/intake/internal/agent"
)

// Handler provides common handler utilities.
type Handler struct {
	svc *agent.Service
}

// NewHandler creates a new Handler around the turn-orchestration service.
func NewHandler(svc *agent.Service) *Handler {
	return &Handler{svc: svc}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
