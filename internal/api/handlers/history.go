package handlers

import (
	"net/http"

	"github.com/amaumene/nflxtrakt/internal/history"
	"github.com/sirupsen/logrus"
)

// SnapshotSource exposes the export of the latest import
type SnapshotSource interface {
	LastSnapshot() *history.Snapshot
}

// HistoryHandler serves the parsed viewing history
type HistoryHandler struct {
	source SnapshotSource
	logger *logrus.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(source SnapshotSource, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{source: source, logger: logger}
}

// ServeHTTP handles the history endpoint
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.source.LastSnapshot()
	if snapshot == nil {
		http.Error(w, "No viewing history imported yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, snapshot, h.logger)
}
