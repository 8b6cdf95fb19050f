// Package course defines the typed shape of every generated entity and
// the generation service that produces them from the LLM provider.
package course

import (
	"fmt"
	"strings"
)

// ActivityKind identifies one practice modality offered by a chapter.
type ActivityKind string

const (
	ActivityQuiz       ActivityKind = "QUIZ"
	ActivityFlashcards ActivityKind = "FLASHCARDS"
	ActivityRoleplay   ActivityKind = "ROLEPLAY"
)

// ActivityKinds is the closed set of kinds a chapter may offer.
var ActivityKinds = []ActivityKind{ActivityQuiz, ActivityFlashcards, ActivityRoleplay}

// ParseActivityKind validates a raw string against the closed set.
func ParseActivityKind(s string) (ActivityKind, error) {
	switch ActivityKind(s) {
	case ActivityQuiz, ActivityFlashcards, ActivityRoleplay:
		return ActivityKind(s), nil
	}
	return "", fmt.Errorf("unknown activity kind: %q", s)
}

// Learning goal labels (closed set).
const (
	GoalCasualReading = "Casual Reading"
	GoalExamPrep      = "Exam Prep"
	GoalDeepAnalysis  = "Deep Analysis"
	GoalQuickSummary  = "Quick Summary"
)

// Goals lists the selectable learning goals.
var Goals = []string{GoalCasualReading, GoalExamPrep, GoalDeepAnalysis, GoalQuickSummary}

// Prior knowledge labels (closed ordered set).
const (
	KnowledgeNone   = "None"
	KnowledgeBasic  = "Basic"
	KnowledgeExpert = "Expert"
)

// KnowledgeLevels lists the prior knowledge labels, lowest first.
var KnowledgeLevels = []string{KnowledgeNone, KnowledgeBasic, KnowledgeExpert}

// Interests lists the selectable interest labels.
var Interests = []string{
	"Plot",
	"Characters",
	"Themes & Symbols",
	"Historical Context",
	"Key Quotes",
	"Vocabulary",
}

// UserPreferences captures the learner's choices for one course.
// Immutable once confirmed; a new course gets a new value.
type UserPreferences struct {
	Goal           string
	Interests      []string
	PriorKnowledge string
}

// Validate checks every field against its closed set.
func (p UserPreferences) Validate() error {
	if !contains(Goals, p.Goal) {
		return fmt.Errorf("unknown goal: %q", p.Goal)
	}
	if !contains(KnowledgeLevels, p.PriorKnowledge) {
		return fmt.Errorf("unknown prior knowledge level: %q", p.PriorKnowledge)
	}
	for _, i := range p.Interests {
		if !contains(Interests, i) {
			return fmt.Errorf("unknown interest: %q", i)
		}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Book identifies the work a course was built from.
type Book struct {
	Title         string
	Author        string // best-effort label, the model rarely knows for sure
	TotalChapters int
}

// Chapter is one unlockable unit of the course. The sequence is
// produced once at course creation; only Locked/Completed mutate
// afterwards, and only through the progress package.
type Chapter struct {
	ID          int // 1-based, dense, sequential
	Title       string
	Description string
	Activities  []ActivityKind
	Locked      bool
	Completed   bool
}

// Character is one entry in the study guide's character list.
type Character struct {
	Name        string
	Role        string
	Description string
}

// Theme is one entry in the study guide's theme list.
type Theme struct {
	Name        string
	Description string
}

// StudyGuide is the book-scoped deep-dive companion, generated once
// per course.
type StudyGuide struct {
	GlobalSummary string // markdown
	Characters    []Character
	Themes        []Theme
}

// ChapterGuide is the guided-reading text for one chapter, generated
// lazily on first visit and cached for the session.
type ChapterGuide struct {
	ChapterTitle string
	Content      string // markdown, long-form
	KeyPoints    []string
}

// QuizQuestion is one multiple-choice item. Ephemeral: regenerated on
// every quiz launch.
type QuizQuestion struct {
	Question           string
	Options            []string
	CorrectAnswerIndex int
	Explanation        string
}

// Flashcard is one front/back card. Ephemeral like quiz questions.
type Flashcard struct {
	Front string
	Back  string
}

// Activity is the tagged content payload for a launched activity.
type Activity interface {
	Kind() ActivityKind
}

// QuizActivity carries the generated questions for a quiz run.
type QuizActivity struct {
	Questions []QuizQuestion
}

func (QuizActivity) Kind() ActivityKind { return ActivityQuiz }

// FlashcardActivity carries the generated cards for a flashcard run.
type FlashcardActivity struct {
	Cards []Flashcard
}

func (FlashcardActivity) Kind() ActivityKind { return ActivityFlashcards }

// RoleplayActivity carries no pregenerated content; the chat engine
// performs its own first turn.
type RoleplayActivity struct{}

func (RoleplayActivity) Kind() ActivityKind { return ActivityRoleplay }

// Offers reports whether the chapter's activity menu includes kind.
func (c Chapter) Offers(kind ActivityKind) bool {
	for _, a := range c.Activities {
		if a == kind {
			return true
		}
	}
	return false
}

// Summary renders the activity menu of a chapter as a short label list.
func (c Chapter) Summary() string {
	names := make([]string, len(c.Activities))
	for i, a := range c.Activities {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
