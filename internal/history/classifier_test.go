package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestClassify(t *testing.T) {
	tests := []struct {
		title   string
		rule    string
		episode *EpisodeRef
		movie   bool
	}{
		{
			title:   "Breaking Bad: Season 3: Fly",
			rule:    RuleNumberedSeason,
			episode: &EpisodeRef{Show: "Breaking Bad", Season: SeasonKey{Number: intPtr(3)}, Episode: "Fly"},
		},
		{
			title:   "Peaky Blinders – Gangs of Birmingham: Staffel 1: Geschenk des Teufels",
			rule:    RuleNumberedSeason,
			episode: &EpisodeRef{Show: "Peaky Blinders – Gangs of Birmingham", Season: SeasonKey{Number: intPtr(1)}, Episode: "Geschenk des Teufels"},
		},
		{
			title:   "Haus des Geldes: Teil 5: Wunschdenken",
			rule:    RuleNumberedSeason,
			episode: &EpisodeRef{Show: "Haus des Geldes", Season: SeasonKey{Number: intPtr(5)}, Episode: "Wunschdenken"},
		},
		{
			title:   "Die außergewoehnlichsten Haeuser der Welt: Staffel 2 – Teil B: Spanien",
			rule:    RuleSplitSeason,
			episode: &EpisodeRef{Show: "Die außergewoehnlichsten Haeuser der Welt", Season: SeasonKey{Number: intPtr(2)}, Episode: "Spanien"},
		},
		{
			title:   "The Falcon and The Winter Soldier: Miniseries: Episode 6",
			rule:    RuleMiniseries,
			episode: &EpisodeRef{Show: "The Falcon and The Winter Soldier", Season: SeasonKey{Number: intPtr(1)}, Episode: "Episode 6"},
		},
		{
			title:   "Chernobyl: Minisérie: 1:23:45",
			rule:    RuleMiniseries,
			episode: &EpisodeRef{Show: "Chernobyl", Season: SeasonKey{Number: intPtr(1)}, Episode: "1:23:45"},
		},
		{
			title:   "American Horror Story: Murder House: Nachgeburt",
			rule:    RuleNamedSeason,
			episode: &EpisodeRef{Show: "American Horror Story", Season: SeasonKey{Name: "Murder House"}, Episode: "Nachgeburt"},
		},
		{
			title:   "King Arthur: Legend of the Sword",
			rule:    RuleSingleColon,
			episode: &EpisodeRef{Show: "King Arthur", Season: SeasonKey{Number: intPtr(1)}, Episode: "Legend of the Sword"},
			movie:   true,
		},
		{
			title:   "The Mandalorian: Chapter 9",
			rule:    RuleSingleColon,
			episode: &EpisodeRef{Show: "The Mandalorian", Season: SeasonKey{Number: intPtr(1)}, Episode: "Chapter 9"},
			movie:   true,
		},
		{
			title: "Invalid show format",
			rule:  RuleMovie,
			movie: true,
		},
		{
			title: "Amélie",
			rule:  RuleMovie,
			movie: true,
		},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := c.Classify(tt.title)
			assert.Equal(t, tt.rule, got.Rule)
			assert.Equal(t, tt.movie, got.Movie)
			if tt.episode == nil {
				assert.Nil(t, got.Episode)
				return
			}
			require.NotNil(t, got.Episode)
			assert.Equal(t, *tt.episode, *got.Episode)
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	c := NewClassifier()

	// matches both the numbered and the named season patterns, numbered is tried first
	got := c.Classify("Dark: Staffel 1: Geheimnisse")
	assert.Equal(t, RuleNumberedSeason, got.Rule)
	assert.False(t, got.IsDualWrite())

	// a one-word middle segment is a miniseries, not a named season
	got = c.Classify("Band of Brothers: Miniserie: Currahee")
	assert.Equal(t, RuleMiniseries, got.Rule)
	require.NotNil(t, got.Episode.Season.Number)
	assert.Equal(t, 1, *got.Episode.Season.Number)
	assert.Empty(t, got.Episode.Season.Name)
}

func TestClassifyDualWrite(t *testing.T) {
	got := NewClassifier().Classify("Spider-Man: Far from Home")
	assert.True(t, got.IsDualWrite())
	assert.Equal(t, RuleSingleColon, got.Rule)
}

func TestClassifyWithoutSingleColonEpisodes(t *testing.T) {
	c := NewClassifier(WithSingleColonEpisodes(false))

	got := c.Classify("Spider-Man: Far from Home")
	assert.Equal(t, RuleMovie, got.Rule)
	assert.Nil(t, got.Episode)
	assert.True(t, got.Movie)

	// the multi-colon rules are unaffected
	got = c.Classify("Breaking Bad: Season 3: Fly")
	assert.Equal(t, RuleNumberedSeason, got.Rule)
}

func TestClassifyNonASCIISeasonDigits(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		title  string
		rule   string
		season int
	}{
		{"Show: Season ٣: Arabic", RuleNumberedSeason, 3},
		{"Show: Season ۱۲: Persian", RuleNumberedSeason, 12},
		{"Show: Season ３: Fullwidth", RuleNumberedSeason, 3},
		{"Show: Staffel ٢ – Teil B: Spanien", RuleSplitSeason, 2},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := c.Classify(tt.title)
			assert.Equal(t, tt.rule, got.Rule)
			require.NotNil(t, got.Episode)
			require.NotNil(t, got.Episode.Season.Number)
			assert.Equal(t, tt.season, *got.Episode.Season.Number)
			assert.Empty(t, got.Episode.Season.Name)
		})
	}
}

func TestParseDigits(t *testing.T) {
	n, ok := parseDigits("07")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok = parseDigits("٠٩")
	assert.True(t, ok)
	assert.Equal(t, 9, n)

	_, ok = parseDigits("")
	assert.False(t, ok)
	_, ok = parseDigits("x1")
	assert.False(t, ok)
}
