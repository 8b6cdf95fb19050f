package progress

import (
	"fmt"

	"github.com/anay/litquest/internal/course"
)

// XP awards per activity run.
const (
	QuizXPPerCorrect = 20
	FlashcardsXP     = 50
	RoleplayXP       = 100
)

// XPPerLevel is the flat amount of XP separating consecutive levels.
const XPPerLevel = 250

// Level derives the learner's level from total XP. Level 1 at 0 XP,
// one level per XPPerLevel thereafter. Pure and monotonic; there is
// no stored level to drift out of sync.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return 1 + xp/XPPerLevel
}

// Award returns the XP earned for one completed activity run.
// For quizzes, score is the number of correctly answered questions;
// the other kinds ignore it.
func Award(kind course.ActivityKind, score int) int {
	switch kind {
	case course.ActivityQuiz:
		if score < 0 {
			score = 0
		}
		return score * QuizXPPerCorrect
	case course.ActivityFlashcards:
		return FlashcardsXP
	case course.ActivityRoleplay:
		return RoleplayXP
	}
	return 0
}

// Complete marks chapter id completed and unlocks its successor.
// The input slice is never mutated; callers get a fresh slice with
// exactly the affected chapters replaced. Completing an already
// completed chapter is a no-op that still returns a new slice, so a
// repeat run can never re-lock anything.
func Complete(chapters []course.Chapter, id int) ([]course.Chapter, error) {
	idx := -1
	for i, c := range chapters {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown chapter id %d", id)
	}
	if chapters[idx].Locked {
		return nil, fmt.Errorf("chapter %d is locked", id)
	}

	next := make([]course.Chapter, len(chapters))
	copy(next, chapters)

	next[idx].Completed = true
	if idx+1 < len(next) {
		next[idx+1].Locked = false
	}
	return next, nil
}

// Frontier returns the lowest-id chapter that is unlocked but not yet
// completed, or 0 when every chapter is done.
func Frontier(chapters []course.Chapter) int {
	for _, c := range chapters {
		if !c.Locked && !c.Completed {
			return c.ID
		}
	}
	return 0
}
