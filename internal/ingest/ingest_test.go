package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromTitle(t *testing.T) {
	src, err := FromTitle("  Dune  ")
	if err != nil {
		t.Fatalf("FromTitle: %v", err)
	}
	if src.Title != "Dune" || src.Excerpt != "" {
		t.Errorf("unexpected source: %+v", src)
	}

	if _, err := FromTitle("   "); err == nil {
		t.Error("blank title accepted")
	}
}

func TestFromFile_TitleFromFilename(t *testing.T) {
	path := writeFile(t, "the_great_gatsby.txt", "In my younger and more vulnerable years...")

	src, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if src.Title != "The Great Gatsby" {
		t.Errorf("Title = %q, want %q", src.Title, "The Great Gatsby")
	}
	if !strings.HasPrefix(src.Excerpt, "In my younger") {
		t.Errorf("Excerpt = %q", src.Excerpt)
	}
}

func TestFromFile_ClipsExcerpt(t *testing.T) {
	long := strings.Repeat("words and more words. ", 200)
	path := writeFile(t, "long-book.txt", long)

	src, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if n := utf8.RuneCountInString(src.Excerpt); n > MaxExcerptLen {
		t.Errorf("excerpt length = %d runes, want <= %d", n, MaxExcerptLen)
	}
	if src.Title != "Long Book" {
		t.Errorf("Title = %q", src.Title)
	}
}

func TestFromFile_NormalizesText(t *testing.T) {
	path := writeFile(t, "bom.txt", "\uFEFFChapter One\r\nIt begins.\x00")

	src, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if src.Excerpt != "Chapter One\nIt begins." {
		t.Errorf("Excerpt = %q", src.Excerpt)
	}
}

func TestFromFile_EmptyFileRejected(t *testing.T) {
	path := writeFile(t, "empty.txt", "   \n\n  ")
	if _, err := FromFile(path); err == nil {
		t.Error("empty file accepted")
	}
}

func TestFromFile_MissingFile(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("missing file accepted")
	}
}
