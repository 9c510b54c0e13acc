package utils

import (
	"bufio"
	"os"
	"strings"
)

// IgnoreList holds title fragments that are never imported (trailers, previews, kids profiles...)
type IgnoreList struct {
	terms []string
}

// NewIgnoreList creates an ignore list from in-memory terms
func NewIgnoreList(terms ...string) *IgnoreList {
	l := &IgnoreList{}
	for _, term := range terms {
		l.add(term)
	}
	return l
}

// LoadIgnoreList loads one term per line from a file. Blank lines and lines
// starting with # are skipped. A missing file yields an empty list.
func LoadIgnoreList(path string) (*IgnoreList, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &IgnoreList{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	l := &IgnoreList{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		l.add(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *IgnoreList) add(term string) {
	term = strings.TrimSpace(term)
	if term != "" && !strings.HasPrefix(term, "#") {
		l.terms = append(l.terms, term)
	}
}

// Len returns the number of terms
func (l *IgnoreList) Len() int {
	return len(l.terms)
}

// IsIgnored checks if a title contains any term, case-insensitively.
// Returns (isIgnored, matchedTerm)
func (l *IgnoreList) IsIgnored(title string) (bool, string) {
	titleLower := strings.ToLower(title)

	for _, term := range l.terms {
		if strings.Contains(titleLower, strings.ToLower(term)) {
			return true, term
		}
	}

	return false, ""
}
