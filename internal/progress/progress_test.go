package progress

import (
	"testing"

	"github.com/anay/litquest/internal/course"
)

func threeChapters() []course.Chapter {
	return []course.Chapter{
		{ID: 1, Title: "One", Locked: false},
		{ID: 2, Title: "Two", Locked: true},
		{ID: 3, Title: "Three", Locked: true},
	}
}

func TestComplete_UnlocksSuccessor(t *testing.T) {
	orig := threeChapters()

	next, err := Complete(orig, 1)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if !next[0].Completed {
		t.Error("chapter 1 not marked completed")
	}
	if next[1].Locked {
		t.Error("chapter 2 still locked after completing chapter 1")
	}
	if !next[2].Locked {
		t.Error("chapter 3 unlocked too early")
	}

	// input slice untouched
	if orig[0].Completed || !orig[1].Locked {
		t.Error("Complete mutated its input")
	}
}

func TestComplete_LastChapter(t *testing.T) {
	chapters := []course.Chapter{{ID: 1, Locked: false}}

	next, err := Complete(chapters, 1)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !next[0].Completed {
		t.Error("final chapter not completed")
	}
}

func TestComplete_LockedChapterRejected(t *testing.T) {
	if _, err := Complete(threeChapters(), 3); err == nil {
		t.Fatal("completing a locked chapter should fail")
	}
}

func TestComplete_UnknownChapterRejected(t *testing.T) {
	if _, err := Complete(threeChapters(), 9); err == nil {
		t.Fatal("completing an unknown chapter should fail")
	}
}

func TestComplete_RepeatNeverRelocks(t *testing.T) {
	next, err := Complete(threeChapters(), 1)
	if err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	next, err = Complete(next, 2)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}

	// replaying chapter 1 must not touch later unlock state
	next, err = Complete(next, 1)
	if err != nil {
		t.Fatalf("repeat Complete: %v", err)
	}
	if next[1].Locked || next[2].Locked {
		t.Error("repeat completion re-locked a chapter")
	}
	if !next[1].Completed {
		t.Error("repeat completion cleared an earlier completion")
	}
}

func TestFrontier(t *testing.T) {
	chapters := threeChapters()
	if got := Frontier(chapters); got != 1 {
		t.Errorf("Frontier = %d, want 1", got)
	}

	chapters, _ = Complete(chapters, 1)
	if got := Frontier(chapters); got != 2 {
		t.Errorf("Frontier after ch1 = %d, want 2", got)
	}

	chapters, _ = Complete(chapters, 2)
	chapters, _ = Complete(chapters, 3)
	if got := Frontier(chapters); got != 0 {
		t.Errorf("Frontier on finished course = %d, want 0", got)
	}
}

func TestLevel(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{249, 1},
		{250, 2},
		{499, 2},
		{500, 3},
		{-10, 1},
	}
	for _, c := range cases {
		if got := Level(c.xp); got != c.want {
			t.Errorf("Level(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestAward(t *testing.T) {
	if got := Award(course.ActivityQuiz, 4); got != 80 {
		t.Errorf("quiz award = %d, want 80", got)
	}
	if got := Award(course.ActivityQuiz, -1); got != 0 {
		t.Errorf("negative quiz score award = %d, want 0", got)
	}
	if got := Award(course.ActivityFlashcards, 0); got != FlashcardsXP {
		t.Errorf("flashcards award = %d, want %d", got, FlashcardsXP)
	}
	if got := Award(course.ActivityRoleplay, 0); got != RoleplayXP {
		t.Errorf("roleplay award = %d, want %d", got, RoleplayXP)
	}
}
