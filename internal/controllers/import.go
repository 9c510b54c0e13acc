package controllers

import (
	"errors"
	"sync"

	"github.com/amaumene/nflxtrakt/internal/config"
	"github.com/amaumene/nflxtrakt/internal/history"
	"github.com/amaumene/nflxtrakt/internal/metrics"
	"github.com/amaumene/nflxtrakt/internal/services/netflix"
	"github.com/amaumene/nflxtrakt/internal/utils"
	"github.com/sirupsen/logrus"
)

// ImportSummary counts what happened to the lines of one export
type ImportSummary struct {
	Lines      int `json:"lines"`
	Shows      int `json:"shows"`
	Movies     int `json:"movies"`
	DualWrites int `json:"dual_writes"`
	Ignored    int `json:"ignored"`
	DateErrors int `json:"date_errors"`
}

// ImportController builds a History from viewing-history entries
type ImportController struct {
	dateFormat          string
	singleColonEpisodes bool
	ignoreList          *utils.IgnoreList
	logger              *logrus.Logger

	mu       sync.RWMutex
	snapshot *history.Snapshot
}

// NewImportController creates a new import controller
func NewImportController(cfg *config.Config, ignoreList *utils.IgnoreList, logger *logrus.Logger) *ImportController {
	if ignoreList == nil {
		ignoreList = utils.NewIgnoreList()
	}
	return &ImportController{
		dateFormat:          cfg.DateFormat,
		singleColonEpisodes: cfg.SingleColonEpisodes,
		ignoreList:          ignoreList,
		logger:              logger,
	}
}

// Import adds every entry to a fresh History. Ignored titles and dates that
// cannot be parsed are logged and skipped.
func (c *ImportController) Import(entries []netflix.Entry) (*history.History, ImportSummary) {
	h := history.New(
		history.WithClassifier(history.NewClassifier(history.WithSingleColonEpisodes(c.singleColonEpisodes))),
		history.WithNormalizer(history.NewNormalizer(c.dateFormat)),
	)

	var summary ImportSummary
	for _, entry := range entries {
		summary.Lines++

		if ignored, term := c.ignoreList.IsIgnored(entry.Title); ignored {
			c.logger.WithFields(logrus.Fields{
				"line":  entry.Line,
				"title": entry.Title,
				"term":  term,
			}).Debug("Ignoring entry")
			summary.Ignored++
			metrics.RecordEntry(metrics.EntrySkipped)
			continue
		}

		classification, err := h.AddEntry(entry.Title, entry.Date)
		if err != nil {
			if !errors.Is(err, history.ErrInvalidDate) {
				c.logger.WithError(err).WithField("line", entry.Line).Error("Failed to add entry")
				continue
			}
			c.logger.WithError(err).WithFields(logrus.Fields{
				"line":  entry.Line,
				"title": entry.Title,
			}).Warn("Skipping entry with unparseable date")
			summary.DateErrors++
			metrics.RecordEntry(metrics.EntryDateError)
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"line":  entry.Line,
			"title": entry.Title,
			"rule":  classification.Rule,
		}).Debug("Parsed entry")

		switch {
		case classification.IsDualWrite():
			summary.DualWrites++
			metrics.RecordEntry(metrics.EntryDual)
		case classification.Episode != nil:
			summary.Shows++
			metrics.RecordEntry(metrics.EntryShow)
		default:
			summary.Movies++
			metrics.RecordEntry(metrics.EntryMovie)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"lines":       summary.Lines,
		"shows":       len(h.Shows()),
		"movies":      len(h.Movies()),
		"ignored":     summary.Ignored,
		"date_errors": summary.DateErrors,
	}).Info("Imported viewing history")

	snapshot := h.Export()
	c.mu.Lock()
	c.snapshot = &snapshot
	c.mu.Unlock()

	return h, summary
}

// LastSnapshot returns the export of the most recent import, or nil before the first one
func (c *ImportController) LastSnapshot() *history.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}
