package netflix

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleExport = "\ufeffTitle,Date\n" +
	"\"Breaking Bad: Season 3: Fly\",\"05.02.21\"\n" +
	"\"King Arthur: Legend of the Sword\",\"17.01.21\"\n" +
	"\"broken row\"\n" +
	"\"Amélie\", 16.09.21 \n"

func TestRead(t *testing.T) {
	entries, err := Read(strings.NewReader(sampleExport), ',')
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Title != "Breaking Bad: Season 3: Fly" || entries[0].Date != "05.02.21" {
		t.Errorf("Unexpected first entry %+v", entries[0])
	}
	if entries[0].Line != 2 {
		t.Errorf("Expected first entry on line 2, got %d", entries[0].Line)
	}
	if entries[2].Title != "Amélie" || entries[2].Date != "16.09.21" {
		t.Errorf("Unexpected last entry %+v", entries[2])
	}
}

func TestReadCustomDelimiter(t *testing.T) {
	export := "Title;Date\nDark: Staffel 1: Geheimnisse;01.01.21\n"
	entries, err := Read(strings.NewReader(export), ';')
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Dark: Staffel 1: Geheimnisse" {
		t.Errorf("Unexpected entries %+v", entries)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NetflixViewingHistory.csv")
	if err := os.WriteFile(path, []byte(sampleExport), 0644); err != nil {
		t.Fatalf("Failed to write export: %v", err)
	}

	entries, err := ReadFile(path, ',')
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(entries))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), ','); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFixDates(t *testing.T) {
	export := "Title,Date\n" +
		"Dark: Staffel 1: Geheimnisse,2021-01-31\n" +
		"Roma,24/12/2020\n" +
		"Amélie,03.10.21\n"

	var out bytes.Buffer
	fixed, err := FixDates(strings.NewReader(export), &out, ',')
	if err != nil {
		t.Fatalf("Failed to fix dates: %v", err)
	}
	if fixed != 2 {
		t.Errorf("Expected 2 fixed rows, got %d", fixed)
	}

	want := "Title,Date\n" +
		"Dark: Staffel 1: Geheimnisse,01/31/21\n" +
		"Roma,12/24/20\n" +
		"Amélie,03.10.21\n"
	if out.String() != want {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}
