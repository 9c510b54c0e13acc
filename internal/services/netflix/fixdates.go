package netflix

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"
)

var (
	isoDate      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	europeanDate = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
)

// FixDates rewrites the date column of an export to MM/DD/YY. Dates written as
// YYYY-MM-DD or DD/MM/YYYY are converted, every other row is copied unchanged.
// It returns the number of rewritten rows.
func FixDates(r io.Reader, w io.Writer, delimiter rune) (int, error) {
	reader := newCSVReader(r, delimiter)
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	fixed := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fixed, fmt.Errorf("failed to read viewing history: %w", err)
		}

		if len(record) >= 2 {
			if date, ok := fixDate(record[1]); ok {
				record[1] = date
				fixed++
			}
		}

		if err := writer.Write(record); err != nil {
			return fixed, fmt.Errorf("failed to write viewing history: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fixed, fmt.Errorf("failed to write viewing history: %w", err)
	}
	return fixed, nil
}

func fixDate(date string) (string, bool) {
	var layout string
	switch {
	case isoDate.MatchString(date):
		layout = "2006-01-02"
	case europeanDate.MatchString(date):
		layout = "02/01/2006"
	default:
		return "", false
	}

	t, err := time.Parse(layout, date)
	if err != nil {
		return "", false
	}
	return t.Format("01/02/06"), true
}
