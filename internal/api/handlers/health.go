package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	syncing func() bool
	logger  *logrus.Logger
}

// NewHealthHandler creates a new health handler. syncing reports whether a run is in progress and may be nil.
func NewHealthHandler(syncing func() bool, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{syncing: syncing, logger: logger}
}

// HealthResponse represents the health response
type HealthResponse struct {
	Status  string `json:"status"`
	Syncing bool   `json:"syncing"`
}

// ServeHTTP handles the health check endpoint
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{Status: "healthy"}
	if h.syncing != nil {
		response.Syncing = h.syncing()
	}

	writeJSON(w, response, h.logger)
}

func writeJSON(w http.ResponseWriter, v interface{}, logger *logrus.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}
