package history

import (
	"bytes"
	"encoding/json"
)

// Snapshot is a read-only copy of a History. It marshals to
// {"tvshows": {show: [season...]}, "movies": {movie: [timestamp...]}}
// with objects keyed in insertion order.
type Snapshot struct {
	TVShows []ShowSnapshot
	Movies  []ItemSnapshot
}

// ShowSnapshot is one show of a Snapshot
type ShowSnapshot struct {
	Name    string
	Seasons []SeasonSnapshot
}

// SeasonSnapshot is one season of a ShowSnapshot
type SeasonSnapshot struct {
	Number   *int
	Name     *string
	Episodes []ItemSnapshot
}

// ItemSnapshot is an episode or movie name with its watch timestamps
type ItemSnapshot struct {
	Name      string
	WatchedAt []string
}

// Export copies the history into a Snapshot
func (h *History) Export() Snapshot {
	snap := Snapshot{
		TVShows: make([]ShowSnapshot, 0, len(h.shows)),
		Movies:  make([]ItemSnapshot, 0, len(h.movies)),
	}

	for _, show := range h.shows {
		ss := ShowSnapshot{Name: show.name, Seasons: make([]SeasonSnapshot, 0, len(show.seasons))}
		for _, season := range show.seasons {
			key := season.Key()
			sn := SeasonSnapshot{Number: key.Number, Episodes: make([]ItemSnapshot, 0, len(season.episodes))}
			if key.Name != "" {
				name := key.Name
				sn.Name = &name
			}
			for _, episode := range season.episodes {
				sn.Episodes = append(sn.Episodes, ItemSnapshot{Name: episode.name, WatchedAt: episode.WatchedAt()})
			}
			ss.Seasons = append(ss.Seasons, sn)
		}
		snap.TVShows = append(snap.TVShows, ss)
	}

	for _, movie := range h.movies {
		snap.Movies = append(snap.Movies, ItemSnapshot{Name: movie.name, WatchedAt: movie.WatchedAt()})
	}

	return snap
}

type seasonJSON struct {
	SeasonNumber *int       `json:"SeasonNumber"`
	SeasonName   *string    `json:"SeasonName"`
	Episodes     orderedMap `json:"episodes"`
}

// MarshalJSON implements json.Marshaler
func (s Snapshot) MarshalJSON() ([]byte, error) {
	shows := make(orderedMap, 0, len(s.TVShows))
	for _, show := range s.TVShows {
		seasons := make([]seasonJSON, 0, len(show.Seasons))
		for _, season := range show.Seasons {
			seasons = append(seasons, seasonJSON{
				SeasonNumber: season.Number,
				SeasonName:   season.Name,
				Episodes:     itemsMap(season.Episodes),
			})
		}
		shows = append(shows, orderedEntry{key: show.Name, value: seasons})
	}

	return json.Marshal(orderedMap{
		{key: "tvshows", value: shows},
		{key: "movies", value: itemsMap(s.Movies)},
	})
}

func itemsMap(items []ItemSnapshot) orderedMap {
	m := make(orderedMap, 0, len(items))
	for _, item := range items {
		watched := item.WatchedAt
		if watched == nil {
			watched = []string{}
		}
		m = append(m, orderedEntry{key: item.Name, value: watched})
	}
	return m
}

type orderedEntry struct {
	key   string
	value any
}

// orderedMap marshals as a JSON object keeping entry order
type orderedMap []orderedEntry

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
