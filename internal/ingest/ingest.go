package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxExcerptLen bounds how much of a source file is carried into
// generation prompts.
const MaxExcerptLen = 1500

// Source is the material a course is built from: a title, and
// optionally an excerpt of the learner's own copy of the text.
type Source struct {
	Title   string
	Excerpt string
}

// FromTitle builds a source from a typed-in book title alone.
func FromTitle(title string) (Source, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Source{}, fmt.Errorf("book title is empty")
	}
	return Source{Title: title}, nil
}

// FromFile builds a source from a plain-text file. The title is
// derived from the filename and the excerpt from the opening of the
// text, clipped to MaxExcerptLen.
func FromFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read book file: %w", err)
	}

	text := normalize(string(data))
	if text == "" {
		return Source{}, fmt.Errorf("%s contains no text", filepath.Base(path))
	}

	return Source{
		Title:   titleFromFilename(path),
		Excerpt: clip(text, MaxExcerptLen),
	}, nil
}

// titleFromFilename turns "the_great_gatsby.txt" into
// "The Great Gatsby".
func titleFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// normalize strips a UTF-8 BOM, drops control characters other than
// whitespace, and collapses Windows line endings.
func normalize(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// clip truncates to at most n runes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
