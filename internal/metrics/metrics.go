// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Entry results
const (
	EntryShow      = "show"
	EntryMovie     = "movie"
	EntryDual      = "dual"
	EntrySkipped   = "skipped"
	EntryDateError = "date_error"
)

var (
	// EntriesTotal counts viewing-history entries by import result.
	EntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflxtrakt_entries_total",
			Help: "Total number of viewing history entries processed",
		},
		[]string{"result"},
	)

	// TMDBRequestsTotal counts TMDB API calls that reached the network.
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflxtrakt_tmdb_requests_total",
			Help: "Total number of TMDB API requests",
		},
		[]string{"endpoint", "status"},
	)

	// TraktItemsTotal counts watch events sent to Trakt.
	TraktItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflxtrakt_trakt_items_total",
			Help: "Total number of watch events added to the Trakt history",
		},
		[]string{"kind"},
	)

	// RunDuration tracks full import, reconcile and sync runs.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nflxtrakt_run_duration_seconds",
			Help:    "Duration of import, reconcile and sync runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)
)

// RecordEntry counts one processed viewing-history entry
func RecordEntry(result string) {
	EntriesTotal.WithLabelValues(result).Inc()
}

// RecordTMDBRequest counts one TMDB request
func RecordTMDBRequest(endpoint, status string) {
	TMDBRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordTraktItems counts watch events added to Trakt
func RecordTraktItems(kind string, n int) {
	TraktItemsTotal.WithLabelValues(kind).Add(float64(n))
}

// ObserveRun records the duration of a run that started at start
func ObserveRun(start time.Time) {
	RunDuration.Observe(time.Since(start).Seconds())
}
