// Package history turns Netflix viewing-history entries into a deduplicated tree of
// shows, seasons and episodes plus a flat list of movies.
//
// A History is not safe for concurrent use; callers serialize access to it.
package history

import "sort"

// watchable is the shared shape of episodes and movies: a name and a set of canonical watch timestamps
type watchable struct {
	name      string
	watchedAt map[string]struct{}
}

func newWatchable(name string) watchable {
	return watchable{name: name, watchedAt: make(map[string]struct{})}
}

// Name returns the item name as it appears in the export
func (w *watchable) Name() string {
	return w.name
}

// WatchedAt returns the deduplicated watch timestamps. Order carries no meaning,
// the slice is sorted so output is stable.
func (w *watchable) WatchedAt() []string {
	out := make([]string, 0, len(w.watchedAt))
	for ts := range w.watchedAt {
		out = append(out, ts)
	}
	sort.Strings(out)
	return out
}

// HasWatchedAt reports whether the canonical timestamp is recorded
func (w *watchable) HasWatchedAt(ts string) bool {
	_, ok := w.watchedAt[ts]
	return ok
}

func (w *watchable) addWatchedAt(ts string) bool {
	if _, ok := w.watchedAt[ts]; ok {
		return false
	}
	w.watchedAt[ts] = struct{}{}
	return true
}

// Episode is a watched episode. Number and ExternalID are set during reconciliation.
type Episode struct {
	watchable
	number     *int
	externalID *int
}

// Number returns the episode number within its season
func (e *Episode) Number() (int, bool) {
	if e.number == nil {
		return 0, false
	}
	return *e.number, true
}

// SetNumber sets the episode number within its season
func (e *Episode) SetNumber(n int) {
	e.number = &n
}

// ExternalID returns the catalog id assigned during reconciliation
func (e *Episode) ExternalID() (int, bool) {
	if e.externalID == nil {
		return 0, false
	}
	return *e.externalID, true
}

// SetExternalID stores the catalog id
func (e *Episode) SetExternalID(id int) {
	e.externalID = &id
}

// Movie is a watched movie
type Movie struct {
	watchable
	externalID *int
}

// ExternalID returns the catalog id assigned during reconciliation
func (m *Movie) ExternalID() (int, bool) {
	if m.externalID == nil {
		return 0, false
	}
	return *m.externalID, true
}

// SetExternalID stores the catalog id
func (m *Movie) SetExternalID(id int) {
	m.externalID = &id
}

// History owns every show and movie parsed from one export
type History struct {
	classifier *Classifier
	normalizer *Normalizer
	shows      []*Show
	movies     []*Movie
}

// Option configures a History
type Option func(*History)

// WithClassifier replaces the default classifier
func WithClassifier(c *Classifier) Option {
	return func(h *History) {
		h.classifier = c
	}
}

// WithNormalizer replaces the default date normalizer
func WithNormalizer(n *Normalizer) Option {
	return func(h *History) {
		h.normalizer = n
	}
}

// New creates an empty history using DefaultDateFormat and all title rules
func New(opts ...Option) *History {
	h := &History{
		classifier: NewClassifier(),
		normalizer: NewNormalizer(DefaultDateFormat),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Shows returns all shows in insertion order
func (h *History) Shows() []*Show {
	return h.shows
}

// Movies returns all movies in insertion order
func (h *History) Movies() []*Movie {
	return h.movies
}

// GetTvShow returns the show with exactly this name, or nil
func (h *History) GetTvShow(name string) *Show {
	for _, show := range h.shows {
		if show.name == name {
			return show
		}
	}
	return nil
}

// HasTvShow reports whether a show with this name exists
func (h *History) HasTvShow(name string) bool {
	return h.GetTvShow(name) != nil
}

// GetMovie returns the movie with exactly this name, or nil
func (h *History) GetMovie(name string) *Movie {
	for _, movie := range h.movies {
		if movie.name == name {
			return movie
		}
	}
	return nil
}

// AddEntry classifies a title and records the watch date on every entity it maps to.
// It returns the classification that was applied. A date that cannot be parsed is
// returned as a *DateParseError and leaves the history untouched.
func (h *History) AddEntry(title, rawDate string) (Classification, error) {
	ts, err := h.normalizer.Normalize(rawDate)
	if err != nil {
		return Classification{}, err
	}

	c := h.classifier.Classify(title)
	if c.Episode != nil {
		h.addEpisode(*c.Episode, ts)
	}
	if c.Movie {
		h.addMovie(title, ts)
	}
	return c, nil
}

// AddTvShowEntry records a watch date on an episode, creating the show, season and episode as needed
func (h *History) AddTvShowEntry(showName string, season SeasonKey, episodeTitle, rawDate string) (*Episode, error) {
	ts, err := h.normalizer.Normalize(rawDate)
	if err != nil {
		return nil, err
	}
	return h.addEpisode(EpisodeRef{Show: showName, Season: season, Episode: episodeTitle}, ts), nil
}

// AddMovieEntry records a watch date on a movie, creating it as needed
func (h *History) AddMovieEntry(movieName, rawDate string) (*Movie, error) {
	ts, err := h.normalizer.Normalize(rawDate)
	if err != nil {
		return nil, err
	}
	return h.addMovie(movieName, ts), nil
}

// AddTvShow returns the show with this name, creating it if needed
func (h *History) AddTvShow(name string) *Show {
	if show := h.GetTvShow(name); show != nil {
		return show
	}
	show := &Show{name: name}
	h.shows = append(h.shows, show)
	return show
}

func (h *History) addEpisode(ref EpisodeRef, ts string) *Episode {
	episode := h.AddTvShow(ref.Show).AddSeason(ref.Season).AddEpisode(ref.Episode)
	episode.addWatchedAt(ts)
	return episode
}

func (h *History) addMovie(name, ts string) *Movie {
	movie := h.GetMovie(name)
	if movie == nil {
		movie = &Movie{watchable: newWatchable(name)}
		h.movies = append(h.movies, movie)
	}
	movie.addWatchedAt(ts)
	return movie
}
