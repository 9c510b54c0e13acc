package handlers

import (
	"net/http"
	"time"

	"github.com/amaumene/nflxtrakt/internal/controllers"
	"github.com/amaumene/nflxtrakt/internal/models"
	"github.com/sirupsen/logrus"
)

// RunReporter exposes the summary of the latest run
type RunReporter interface {
	LastRun() *controllers.RunSummary
}

// LedgerStats exposes counts of synced watch events
type LedgerStats interface {
	CountEvents(kind models.EventKind) (int, error)
	LastSyncedAt() (*time.Time, error)
}

// StatusHandler handles status requests
type StatusHandler struct {
	runs   RunReporter
	ledger LedgerStats
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(runs RunReporter, ledger LedgerStats, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		runs:   runs,
		ledger: ledger,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	LastRun        *controllers.RunSummary `json:"last_run"`
	SyncedEpisodes int                     `json:"synced_episodes"`
	SyncedMovies   int                     `json:"synced_movies"`
	LastSyncedAt   *time.Time              `json:"last_synced_at"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	episodes, err := h.ledger.CountEvents(models.EventKindEpisode)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count synced episodes")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	movies, err := h.ledger.CountEvents(models.EventKindMovie)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count synced movies")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	lastSyncedAt, err := h.ledger.LastSyncedAt()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get last sync time")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, StatusResponse{
		LastRun:        h.runs.LastRun(),
		SyncedEpisodes: episodes,
		SyncedMovies:   movies,
		LastSyncedAt:   lastSyncedAt,
	}, h.logger)
}
