package history

import (
	"regexp"
	"unicode"
)

// Rule names, in evaluation order
const (
	RuleNumberedSeason = "numbered-season" // Show: Season 3: Episode
	RuleSplitSeason    = "split-season"    // Show: Staffel 2 – Teil B: Episode
	RuleMiniseries     = "miniseries"      // Show: Miniseries: Episode
	RuleNamedSeason    = "named-season"    // Show: Murder House: Episode
	RuleSingleColon    = "single-colon"    // Show: Episode (also recorded as a movie)
	RuleMovie          = "movie"
)

// Classification is the result of classifying one viewing-history title.
// Episode is nil for plain movies. Movie is true when the full title must be
// recorded as a movie, which for RuleSingleColon happens in addition to the episode.
type Classification struct {
	Rule    string
	Episode *EpisodeRef
	Movie   bool
}

// EpisodeRef locates an episode inside the show/season tree
type EpisodeRef struct {
	Show    string
	Season  SeasonKey
	Episode string
}

// IsDualWrite reports whether the title is recorded both as an episode and as a movie
func (c Classification) IsDualWrite() bool {
	return c.Episode != nil && c.Movie
}

type rule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) (EpisodeRef, bool)
}

// \w in Go regexps is ASCII only, miniseries markers may be accented ("Miniserie", "Minisérie").
const word = `[\p{L}\p{N}_]+`

var rules = []rule{
	{
		name:  RuleNumberedSeason,
		re:    regexp.MustCompile(`(.+): .+ (\p{Nd}{1,2}): (.*)`),
		build: numberedSeason,
	},
	{
		name:  RuleSplitSeason,
		re:    regexp.MustCompile(`(.+): .+ (\p{Nd}{1,2}) – .+: (.*)`),
		build: numberedSeason,
	},
	{
		name: RuleMiniseries,
		re:   regexp.MustCompile(`(.+): ` + word + `: (.+)`),
		build: func(m []string) (EpisodeRef, bool) {
			return EpisodeRef{Show: m[1], Season: SeasonNumber(1), Episode: m[2]}, true
		},
	},
	{
		name: RuleNamedSeason,
		re:   regexp.MustCompile(`(.+): (.+): (.+)`),
		build: func(m []string) (EpisodeRef, bool) {
			return EpisodeRef{Show: m[1], Season: SeasonName(m[2]), Episode: m[3]}, true
		},
	},
}

// the single-colon rule is kept apart because it does not end the evaluation
var singleColon = regexp.MustCompile(`(.+): (.+)`)

func numberedSeason(m []string) (EpisodeRef, bool) {
	n, ok := parseDigits(m[2])
	if !ok {
		return EpisodeRef{}, false
	}
	return EpisodeRef{Show: m[1], Season: SeasonNumber(n), Episode: m[3]}, true
}

// parseDigits reads decimal digits of any script ("3", "٣", "３")
func parseDigits(s string) (int, bool) {
	n := 0
	for _, r := range s {
		v, ok := digitValue(r)
		if !ok {
			return 0, false
		}
		n = n*10 + v
	}
	return n, s != ""
}

// digitValue relies on Unicode allocating Nd digits in contiguous runs of
// complete 0-9 sequences
func digitValue(r rune) (int, bool) {
	if !unicode.IsDigit(r) {
		return 0, false
	}
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10, true
}

// Classifier applies the ordered title rules. The first matching rule wins.
type Classifier struct {
	singleColonEpisodes bool
}

// ClassifierOption configures a Classifier
type ClassifierOption func(*Classifier)

// WithSingleColonEpisodes toggles the "Show: Episode" rule. When disabled, titles with a
// single colon (e.g. "Spider-Man: Far from Home") are only recorded as movies.
func WithSingleColonEpisodes(enabled bool) ClassifierOption {
	return func(c *Classifier) {
		c.singleColonEpisodes = enabled
	}
}

// NewClassifier creates a classifier with the single-colon rule enabled
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{singleColonEpisodes: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify determines whether a title is an episode, a movie, or both
func (c *Classifier) Classify(title string) Classification {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		if ref, ok := r.build(m); ok {
			return Classification{Rule: r.name, Episode: &ref}
		}
	}

	if c.singleColonEpisodes {
		if m := singleColon.FindStringSubmatch(title); m != nil {
			return Classification{
				Rule:    RuleSingleColon,
				Episode: &EpisodeRef{Show: m[1], Season: SeasonNumber(1), Episode: m[2]},
				Movie:   true,
			}
		}
	}

	return Classification{Rule: RuleMovie, Movie: true}
}
