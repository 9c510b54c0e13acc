package history

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultDateFormat is the layout of dates in a Netflix viewing history export (day.month.2-digit-year)
	DefaultDateFormat = "%d.%m.%y"

	// Netflix exports only carry the date, every watch event gets this wall-clock time.
	syntheticClock       = "20:15"
	syntheticClockLayout = "15:04"

	// legacyLayout is month.day.2-digit-year, tried after the configured format fails.
	legacyLayout = "1.2.06"

	canonicalLayout = "2006-01-02T15:04:05"
	canonicalSuffix = ".00Z"
)

// ErrInvalidDate is matched by every DateParseError
var ErrInvalidDate = errors.New("invalid watched date")

// DateParseError is returned when a raw date matches neither the configured nor the legacy format
type DateParseError struct {
	Raw         string
	Layout      string
	PrimaryErr  error
	FallbackErr error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("failed to parse watched date %q with layout %q: %v (legacy fallback: %v)",
		e.Raw, e.Layout, e.PrimaryErr, e.FallbackErr)
}

// Is reports ErrInvalidDate as the sentinel for this error
func (e *DateParseError) Is(target error) bool {
	return target == ErrInvalidDate
}

func (e *DateParseError) Unwrap() error {
	return e.PrimaryErr
}

// Normalizer turns raw export dates into canonical timestamps (YYYY-MM-DDTHH:MM:SS.00Z)
type Normalizer struct {
	layout string
}

// NewNormalizer creates a normalizer for the given date format. The format is either a
// strftime pattern (e.g. "%d.%m.%y") or a Go reference layout (e.g. "2.1.06").
// An empty format selects DefaultDateFormat.
func NewNormalizer(format string) *Normalizer {
	if strings.TrimSpace(format) == "" {
		format = DefaultDateFormat
	}
	return &Normalizer{layout: GoLayout(format)}
}

// Layout returns the Go layout used for the primary parse
func (n *Normalizer) Layout() string {
	return n.layout
}

// Normalize converts a raw date to its canonical timestamp
func (n *Normalizer) Normalize(raw string) (string, error) {
	t, primaryErr := time.Parse(n.layout+" "+syntheticClockLayout, raw+" "+syntheticClock)
	if primaryErr == nil {
		return t.Format(canonicalLayout) + canonicalSuffix, nil
	}

	dotted := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return '.'
	}, raw)

	t, fallbackErr := time.Parse(legacyLayout+" "+syntheticClockLayout, dotted+" "+syntheticClock)
	if fallbackErr != nil {
		return "", &DateParseError{
			Raw:         raw,
			Layout:      n.layout,
			PrimaryErr:  primaryErr,
			FallbackErr: fallbackErr,
		}
	}
	return t.Format(canonicalLayout) + canonicalSuffix, nil
}

// strftime directives understood in configured date formats.
// Day and month map to the non-padded Go forms so "3.10.21" parses like strptime does.
var strftimeDirectives = map[rune]string{
	'd': "2",
	'm': "1",
	'y': "06",
	'Y': "2006",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'H': "15",
	'M': "04",
	'S': "05",
	'%': "%",
}

// GoLayout translates a strftime pattern into a Go time layout.
// Strings without a '%' are assumed to already be Go layouts.
func GoLayout(format string) string {
	if !strings.ContainsRune(format, '%') {
		return format
	}

	var b strings.Builder
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '%' || i == len(runes)-1 {
			b.WriteRune(r)
			continue
		}
		i++
		if layout, ok := strftimeDirectives[runes[i]]; ok {
			b.WriteString(layout)
			continue
		}
		// unknown directive, keep it literally
		b.WriteRune('%')
		b.WriteRune(runes[i])
	}
	return b.String()
}
