package history

import (
	"errors"
	"fmt"
)

// ErrSeasonConflict is returned when a season mutation would give two seasons of one show
// the same number or the same name
var ErrSeasonConflict = errors.New("season identity already taken")

// SeasonKey identifies a season within a show by number, by name, or by both.
// A nil Number means the number is unknown; an empty Name means no name.
type SeasonKey struct {
	Number *int
	Name   string
}

// SeasonNumber builds a key for a numbered season
func SeasonNumber(n int) SeasonKey {
	return SeasonKey{Number: &n}
}

// SeasonName builds a key for a season only known by name
func SeasonName(name string) SeasonKey {
	return SeasonKey{Name: name}
}

// String renders the key for logs
func (k SeasonKey) String() string {
	switch {
	case k.Number != nil && k.Name != "":
		return fmt.Sprintf("%d (%s)", *k.Number, k.Name)
	case k.Number != nil:
		return fmt.Sprintf("%d", *k.Number)
	case k.Name != "":
		return k.Name
	default:
		return "<unknown>"
	}
}

// Season is one season of a show, owning its episodes in insertion order
type Season struct {
	number   *int
	name     string
	episodes []*Episode
}

// Number returns the season number, ok is false when the number is unknown
func (s *Season) Number() (int, bool) {
	if s.number == nil {
		return 0, false
	}
	return *s.number, true
}

// Name returns the season name, empty when the season has none
func (s *Season) Name() string {
	return s.name
}

// Key returns a copy of the season's identity
func (s *Season) Key() SeasonKey {
	k := SeasonKey{Name: s.name}
	if s.number != nil {
		n := *s.number
		k.Number = &n
	}
	return k
}

// Episodes returns the season's episodes in insertion order
func (s *Season) Episodes() []*Episode {
	return s.episodes
}

// GetEpisode returns the episode with exactly this name, or nil
func (s *Season) GetEpisode(name string) *Episode {
	for _, episode := range s.episodes {
		if episode.name == name {
			return episode
		}
	}
	return nil
}

// AddEpisode returns the episode with this name, creating it if needed
func (s *Season) AddEpisode(name string) *Episode {
	if episode := s.GetEpisode(name); episode != nil {
		return episode
	}
	episode := &Episode{watchable: newWatchable(name)}
	s.episodes = append(s.episodes, episode)
	return episode
}

func (s *Season) hasNumber(n int) bool {
	return s.number != nil && *s.number == n
}

func (s *Season) hasName(name string) bool {
	return name != "" && s.name == name
}

// Show is a TV show owning its seasons in insertion order
type Show struct {
	name    string
	seasons []*Season
}

// Name returns the show name
func (s *Show) Name() string {
	return s.name
}

// Seasons returns the show's seasons in insertion order
func (s *Show) Seasons() []*Season {
	return s.seasons
}

// GetSeasonByNumber returns the season with this number, or nil
func (s *Show) GetSeasonByNumber(n int) *Season {
	for _, season := range s.seasons {
		if season.hasNumber(n) {
			return season
		}
	}
	return nil
}

// GetSeasonByName returns the season with this non-empty name, or nil
func (s *Show) GetSeasonByName(name string) *Season {
	for _, season := range s.seasons {
		if season.hasName(name) {
			return season
		}
	}
	return nil
}

// FindSeason looks a season up by number first, then by name.
// An empty key only matches a season that has neither.
func (s *Show) FindSeason(key SeasonKey) *Season {
	if key.Number == nil && key.Name == "" {
		for _, season := range s.seasons {
			if season.number == nil && season.name == "" {
				return season
			}
		}
		return nil
	}
	if key.Number != nil {
		if season := s.GetSeasonByNumber(*key.Number); season != nil {
			return season
		}
	}
	return s.GetSeasonByName(key.Name)
}

// AddSeason returns the season matching key, creating it if no season matches.
// A matched season that lacks the number or name carried by key has it filled in,
// as long as no other season of the show already uses it.
func (s *Show) AddSeason(key SeasonKey) *Season {
	if season := s.FindSeason(key); season != nil {
		if season.number == nil && key.Number != nil {
			_ = s.AssignSeasonNumber(season, *key.Number)
		}
		if season.name == "" && key.Name != "" {
			_ = s.AssignSeasonName(season, key.Name)
		}
		return season
	}

	season := &Season{name: key.Name}
	if key.Number != nil {
		n := *key.Number
		season.number = &n
	}
	s.seasons = append(s.seasons, season)
	return season
}

// AssignSeasonNumber sets the number of one of the show's seasons
func (s *Show) AssignSeasonNumber(season *Season, n int) error {
	if other := s.GetSeasonByNumber(n); other != nil && other != season {
		return fmt.Errorf("show %q season %d: %w", s.name, n, ErrSeasonConflict)
	}
	season.number = &n
	return nil
}

// AssignSeasonName sets the name of one of the show's seasons
func (s *Show) AssignSeasonName(season *Season, name string) error {
	if other := s.GetSeasonByName(name); other != nil && other != season {
		return fmt.Errorf("show %q season %q: %w", s.name, name, ErrSeasonConflict)
	}
	season.name = name
	return nil
}
