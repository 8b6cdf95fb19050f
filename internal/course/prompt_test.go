package course

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/anay/litquest/internal/locale"
)

func TestClipExcerpt_RuneSafe(t *testing.T) {
	// three bytes per rune; a byte cut would land mid-character
	excerpt := strings.Repeat("书", ExcerptLimit)

	clipped := clipExcerpt(excerpt, ExcerptLimit)
	if !utf8.ValidString(clipped) {
		t.Fatal("clip produced invalid UTF-8")
	}
	if n := utf8.RuneCountInString(clipped); n != ExcerptLimit {
		t.Errorf("clip kept %d runes, want %d", n, ExcerptLimit)
	}

	short := "short"
	if clipExcerpt(short, ExcerptLimit) != short {
		t.Error("short excerpt was modified")
	}
}

func TestBuildPlanPrompt_ValidUTF8WithCJKExcerpt(t *testing.T) {
	excerpt := strings.Repeat("红楼梦", ExcerptLimit)

	prompt := buildPlanPrompt("红楼梦", excerpt, testPrefs, locale.Chinese)
	if !utf8.ValidString(prompt) {
		t.Fatal("plan prompt contains invalid UTF-8")
	}

	guide := buildStudyGuidePrompt("红楼梦", excerpt, locale.Chinese)
	if !utf8.ValidString(guide) {
		t.Fatal("study guide prompt contains invalid UTF-8")
	}
}
