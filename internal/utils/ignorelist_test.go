package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadIgnoreList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore.txt")
	content := "# trailers and teasers\nTrailer\n\n  Teaser  \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}

	list, err := LoadIgnoreList(path)
	if err != nil {
		t.Fatalf("Failed to load ignore list: %v", err)
	}
	if list.Len() != 2 {
		t.Fatalf("Expected 2 terms, got %d", list.Len())
	}

	ignored, term := list.IsIgnored("Stranger Things 4: Official TRAILER")
	if !ignored || term != "Trailer" {
		t.Errorf("Expected title to be ignored by 'Trailer', got %v %q", ignored, term)
	}

	ignored, _ = list.IsIgnored("Breaking Bad: Season 3: Fly")
	if ignored {
		t.Error("Episode title should not be ignored")
	}
}

func TestLoadIgnoreListMissingFile(t *testing.T) {
	list, err := LoadIgnoreList(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("Missing file should not be an error: %v", err)
	}
	if list.Len() != 0 {
		t.Errorf("Expected empty list, got %d terms", list.Len())
	}
}

func TestNewIgnoreList(t *testing.T) {
	list := NewIgnoreList("", "# comment", "Teaser")
	if list.Len() != 1 {
		t.Fatalf("Expected 1 term, got %d", list.Len())
	}
	if ignored, _ := list.IsIgnored("Dark: Teaser"); !ignored {
		t.Error("Expected title to be ignored")
	}
}
