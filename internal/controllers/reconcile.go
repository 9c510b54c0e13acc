package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/amaumene/nflxtrakt/internal/history"
	"github.com/amaumene/nflxtrakt/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// Catalog is the subset of the TMDB API used to resolve titles
type Catalog interface {
	Language() string
	SearchTV(ctx context.Context, query string) ([]tmdb.TVResult, error)
	SearchMovie(ctx context.Context, query string) ([]tmdb.MovieResult, error)
	TVDetails(ctx context.Context, showID int) (*tmdb.TVDetails, error)
	SeasonDetails(ctx context.Context, showID, season int) (*tmdb.SeasonDetails, error)
	EpisodeTranslations(ctx context.Context, showID, season, episode int) ([]tmdb.Translation, error)
}

// ReconcileSummary counts matched and unmatched items of one run
type ReconcileSummary struct {
	ShowsMatched      int `json:"shows_matched"`
	ShowsMissing      int `json:"shows_missing"`
	EpisodesMatched   int `json:"episodes_matched"`
	EpisodesUnmatched int `json:"episodes_unmatched"`
	MoviesMatched     int `json:"movies_matched"`
	MoviesMissing     int `json:"movies_missing"`
}

// ReconcileController assigns TMDB ids to the shows, episodes and movies of a History
type ReconcileController struct {
	catalog          Catalog
	strict           bool
	translateEpisode bool
	logger           *logrus.Logger
}

// NewReconcileController creates a new reconcile controller. In strict mode a
// failed movie lookup aborts the run. translateEpisodes replaces TMDB episode
// names with their translation in the catalog language before matching.
func NewReconcileController(catalog Catalog, strict, translateEpisodes bool, logger *logrus.Logger) *ReconcileController {
	return &ReconcileController{
		catalog:          catalog,
		strict:           strict,
		translateEpisode: translateEpisodes,
		logger:           logger,
	}
}

// Reconcile resolves every show and movie of h
func (c *ReconcileController) Reconcile(ctx context.Context, h *history.History) (ReconcileSummary, error) {
	var summary ReconcileSummary

	for _, show := range h.Shows() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := c.reconcileShow(ctx, show, &summary); err != nil {
			c.logger.WithError(err).WithField("show", show.Name()).Error("Failed to reconcile show")
		}
	}

	for _, movie := range h.Movies() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := c.reconcileMovie(ctx, movie, &summary); err != nil {
			if c.strict {
				return summary, fmt.Errorf("failed to reconcile movie %q: %w", movie.Name(), err)
			}
			c.logger.WithError(err).WithField("movie", movie.Name()).Warn("Ignoring movie lookup error")
		}
	}

	c.logger.WithFields(logrus.Fields{
		"shows_matched":      summary.ShowsMatched,
		"shows_missing":      summary.ShowsMissing,
		"episodes_matched":   summary.EpisodesMatched,
		"episodes_unmatched": summary.EpisodesUnmatched,
		"movies_matched":     summary.MoviesMatched,
		"movies_missing":     summary.MoviesMissing,
	}).Info("Reconciliation completed")

	return summary, nil
}

func (c *ReconcileController) reconcileShow(ctx context.Context, show *history.Show, summary *ReconcileSummary) error {
	results, err := c.catalog.SearchTV(ctx, show.Name())
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			c.logger.WithField("show", show.Name()).Warn("Show not found on TMDB")
			summary.ShowsMissing++
			summary.EpisodesUnmatched += countEpisodes(show)
			return nil
		}
		return err
	}

	showID := results[0].ID
	details, err := c.catalog.TVDetails(ctx, showID)
	if err != nil {
		return err
	}
	summary.ShowsMatched++

	log := c.logger.WithFields(logrus.Fields{
		"show":    show.Name(),
		"tmdb_id": showID,
	})

	for _, season := range show.Seasons() {
		number, ok, err := c.resolveSeasonNumber(ctx, show, season, showID, details.NumberOfSeasons)
		if err != nil {
			log.WithError(err).WithField("season", season.Key().String()).Error("Failed to resolve season, skipping")
			summary.EpisodesUnmatched += len(season.Episodes())
			continue
		}
		if !ok {
			log.WithField("season", season.Key().String()).Info("No season number found")
			summary.EpisodesUnmatched += len(season.Episodes())
			continue
		}

		tmdbSeason, err := c.catalog.SeasonDetails(ctx, showID, number)
		if err != nil {
			log.WithError(err).WithField("season", number).Error("Failed to get season, skipping")
			summary.EpisodesUnmatched += len(season.Episodes())
			continue
		}

		if c.translateEpisode {
			c.translateEpisodes(ctx, showID, tmdbSeason)
		}

		matched := matchEpisodes(season.Episodes(), tmdbSeason.Episodes)
		summary.EpisodesMatched += matched
		summary.EpisodesUnmatched += len(season.Episodes()) - matched

		for _, episode := range season.Episodes() {
			if _, ok := episode.ExternalID(); !ok {
				log.WithFields(logrus.Fields{
					"season":  number,
					"episode": episode.Name(),
				}).Info("No TMDB id found for episode")
			}
		}
	}

	return nil
}

// resolveSeasonNumber returns the TMDB season number of season. Named seasons are
// looked up by name, numbers beyond the catalog's last season are clamped to it.
func (c *ReconcileController) resolveSeasonNumber(ctx context.Context, show *history.Show, season *history.Season, showID, numSeasons int) (int, bool, error) {
	number, ok := season.Number()
	if !ok {
		if season.Name() == "" {
			return 0, false, nil
		}

		found, err := c.findSeasonByName(ctx, showID, numSeasons, season.Name())
		if err != nil || found == 0 {
			return 0, false, err
		}
		number = found

		if err := show.AssignSeasonNumber(season, number); err != nil {
			// another season already holds this number, use it for lookups only
			c.logger.WithError(err).WithField("show", show.Name()).Debug("Season number not stored")
		}
	}

	// exports sometimes split one catalog season into several
	if numSeasons > 0 && number > numSeasons {
		number = numSeasons
	}
	return number, true, nil
}

// findSeasonByName scans seasons 1..numSeasons for an exact, then folded, name match
func (c *ReconcileController) findSeasonByName(ctx context.Context, showID, numSeasons int, name string) (int, error) {
	folded := 0
	for i := 1; i <= numSeasons; i++ {
		details, err := c.catalog.SeasonDetails(ctx, showID, i)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				continue
			}
			return 0, err
		}
		if details.Name == name {
			return details.SeasonNumber, nil
		}
		if folded == 0 && foldName(details.Name) == foldName(name) {
			folded = details.SeasonNumber
		}
	}
	return folded, nil
}

// translateEpisodes replaces episode names with their translation in the catalog language
func (c *ReconcileController) translateEpisodes(ctx context.Context, showID int, season *tmdb.SeasonDetails) {
	language := c.catalog.Language()
	for i := range season.Episodes {
		episode := &season.Episodes[i]
		translations, err := c.catalog.EpisodeTranslations(ctx, showID, season.SeasonNumber, episode.EpisodeNumber)
		if err != nil {
			c.logger.WithError(err).Debug("Failed to get episode translations")
			continue
		}
		for _, translation := range translations {
			if translation.ISO6391 == language && translation.Data.Name != "" {
				episode.Name = translation.Data.Name
				break
			}
		}
	}
}

// matchEpisodes assigns TMDB ids to watched episodes and returns how many have one.
// Names are compared exactly, then fuzzily, then by an episode number in the name.
// When every episode of the season was watched, the remaining ones are filled in
// reverse order since exports list the newest first.
func matchEpisodes(episodes []*history.Episode, catalog []tmdb.Episode) int {
	for _, episode := range episodes {
		if tmdbEpisode := findEpisode(episode.Name(), catalog); tmdbEpisode != nil {
			episode.SetExternalID(tmdbEpisode.ID)
			episode.SetNumber(tmdbEpisode.EpisodeNumber)
			continue
		}

		n, ok := episodeNumberFromName(episode.Name())
		if !ok || n > len(catalog) {
			continue
		}
		for _, tmdbEpisode := range catalog {
			if tmdbEpisode.EpisodeNumber == n {
				episode.SetExternalID(tmdbEpisode.ID)
				episode.SetNumber(n)
				break
			}
		}
	}

	if len(catalog) == len(episodes) {
		last := len(episodes)
		for _, episode := range episodes {
			if _, ok := episode.ExternalID(); ok {
				last--
				continue
			}
			for _, tmdbEpisode := range catalog {
				if tmdbEpisode.EpisodeNumber == last {
					episode.SetExternalID(tmdbEpisode.ID)
					episode.SetNumber(last)
					last--
					break
				}
			}
		}
	}

	matched := 0
	for _, episode := range episodes {
		if _, ok := episode.ExternalID(); ok {
			matched++
		}
	}
	return matched
}

// findEpisode returns the exact name match, else the closest fuzzy match
func findEpisode(name string, catalog []tmdb.Episode) *tmdb.Episode {
	for i := range catalog {
		if catalog[i].Name == name {
			return &catalog[i]
		}
	}

	var best *tmdb.Episode
	bestScore := 0.0
	for i := range catalog {
		if !namesMatch(catalog[i].Name, name) {
			continue
		}
		if score := similarity(catalog[i].Name, name); score > bestScore {
			best, bestScore = &catalog[i], score
		}
	}
	return best
}

func (c *ReconcileController) reconcileMovie(ctx context.Context, movie *history.Movie, summary *ReconcileSummary) error {
	results, err := c.catalog.SearchMovie(ctx, movie.Name())
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			c.logger.WithField("movie", movie.Name()).Info("Movie not found on TMDB")
			summary.MoviesMissing++
			return nil
		}
		summary.MoviesMissing++
		return err
	}

	movie.SetExternalID(results[0].ID)
	summary.MoviesMatched++
	c.logger.WithFields(logrus.Fields{
		"movie":   movie.Name(),
		"title":   results[0].Title,
		"tmdb_id": results[0].ID,
	}).Info("Found movie")
	return nil
}

func countEpisodes(show *history.Show) int {
	n := 0
	for _, season := range show.Seasons() {
		n += len(season.Episodes())
	}
	return n
}
