package controllers

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minSimilarity is the lowest levenshtein ratio accepted as a fuzzy name match
const minSimilarity = 0.85

var (
	episodeNumberPattern = regexp.MustCompile(`(?:Folge|Episode) (\d{1,2})`)
	nonAlnum             = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	digitRuns            = regexp.MustCompile(`\d+`)
	folder               = cases.Fold()
)

// foldName lowercases, strips accents and collapses punctuation so that
// "Pilot – Part 1" and "pilot - part 1" compare equal
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := folder.String(stripped)
	return strings.TrimSpace(nonAlnum.ReplaceAllString(folded, " "))
}

// similarity returns 1 - distance/longest over the folded names
func similarity(a, b string) float64 {
	a, b = foldName(a), foldName(b)
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// namesMatch reports an exact, folded or close fuzzy match. Names whose
// numbers differ never match, "Episode 1" is not "Episode 2".
func namesMatch(a, b string) bool {
	if a == b {
		return true
	}
	if strings.Join(digitRuns.FindAllString(a, -1), " ") != strings.Join(digitRuns.FindAllString(b, -1), " ") {
		return false
	}
	return similarity(a, b) >= minSimilarity
}

// episodeNumberFromName extracts N from names like "Folge 3" or "Episode 12"
func episodeNumberFromName(name string) (int, bool) {
	m := episodeNumberPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
