// Package netflix reads the viewing-history CSV exported from a Netflix profile.
package netflix

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const bom = "\ufeff"

// Entry is one viewing-history row
type Entry struct {
	Line  int
	Title string
	Date  string
}

// ReadFile reads all entries from an export file
func ReadFile(path string, delimiter rune) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open viewing history: %w", err)
	}
	defer file.Close()

	return Read(file, delimiter)
}

// Read parses an export. The first record is the "Title","Date" header and is skipped,
// as are records with fewer than two fields.
func Read(r io.Reader, delimiter rune) ([]Entry, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(bom)); err == nil && string(prefix) == bom {
		_, _ = br.Discard(len(bom))
	}

	reader := newCSVReader(br, delimiter)

	var entries []Entry
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read viewing history: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < 2 {
			continue
		}

		line, _ := reader.FieldPos(0)
		entries = append(entries, Entry{
			Line:  line,
			Title: record[0],
			Date:  strings.TrimSpace(record[1]),
		})
	}

	return entries, nil
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}
