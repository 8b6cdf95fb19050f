package course

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/anay/litquest/internal/llm"
	"github.com/anay/litquest/internal/locale"
)

var testPrefs = UserPreferences{
	Goal:           GoalExamPrep,
	Interests:      []string{"Plot"},
	PriorKnowledge: KnowledgeBasic,
}

func newTestGenerator(responses ...llm.MockResponse) (*Generator, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return NewGenerator(mock, DefaultConfig()), mock
}

func TestGeneratePlan_RenumbersAndLocks(t *testing.T) {
	// The model returns sloppy ids; the plan must come back dense 1..N
	// with only chapter 1 unlocked.
	raw := `[
		{"id": 7, "title": "Arrival on Arrakis", "description": "The Atreides land.", "activities": ["QUIZ", "ROLEPLAY"]},
		{"id": 7, "title": "Betrayal", "description": "The Harkonnens strike.", "activities": ["FLASHCARDS"]},
		{"id": 2, "title": "The Desert", "description": "Paul among the Fremen.", "activities": ["QUIZ", "FLASHCARDS", "ROLEPLAY"]}
	]`
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(raw)})

	chapters, err := g.GeneratePlan(context.Background(), "Dune", "", testPrefs, locale.English)
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}

	if len(chapters) != 3 {
		t.Fatalf("len(chapters) = %d, want 3", len(chapters))
	}
	for i, c := range chapters {
		if c.ID != i+1 {
			t.Errorf("chapters[%d].ID = %d, want %d", i, c.ID, i+1)
		}
		if c.Completed {
			t.Errorf("chapters[%d] starts completed", i)
		}
		wantLocked := i != 0
		if c.Locked != wantLocked {
			t.Errorf("chapters[%d].Locked = %v, want %v", i, c.Locked, wantLocked)
		}
	}
}

func TestGeneratePlan_UnknownActivityFailsWholePlan(t *testing.T) {
	raw := `[
		{"id": 1, "title": "Ch 1", "description": "d", "activities": ["QUIZ"]},
		{"id": 2, "title": "Ch 2", "description": "d", "activities": ["KARAOKE"]}
	]`
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(raw)})

	if _, err := g.GeneratePlan(context.Background(), "Dune", "", testPrefs, locale.English); err == nil {
		t.Fatal("expected unknown activity kind to fail the plan")
	}
}

func TestGeneratePlan_EmptyPlanFails(t *testing.T) {
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(`[]`)})

	if _, err := g.GeneratePlan(context.Background(), "Dune", "", testPrefs, locale.English); err == nil {
		t.Fatal("expected empty plan to fail")
	}
}

func TestGenerateStudyGuide_RequiresCharactersAndThemes(t *testing.T) {
	raw := `{"globalSummary": "A long summary.", "characters": [], "themes": [{"name": "Power", "description": "d"}]}`
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(raw)})

	if _, err := g.GenerateStudyGuide(context.Background(), "Dune", "", locale.English); err == nil {
		t.Fatal("expected study guide without characters to fail")
	}
}

func TestGenerateStudyGuide_Valid(t *testing.T) {
	raw := `{
		"globalSummary": "## Dune\nA sweeping tale of spice and power.",
		"characters": [{"name": "Paul", "role": "Protagonist", "description": "Heir of House Atreides."}],
		"themes": [{"name": "Ecology", "description": "The desert shapes everything."}]
	}`
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(raw)})

	guide, err := g.GenerateStudyGuide(context.Background(), "Dune", "", locale.English)
	if err != nil {
		t.Fatalf("GenerateStudyGuide: %v", err)
	}
	if len(guide.Characters) != 1 || guide.Characters[0].Name != "Paul" {
		t.Errorf("unexpected characters: %+v", guide.Characters)
	}
	if len(guide.Themes) != 1 || guide.Themes[0].Name != "Ecology" {
		t.Errorf("unexpected themes: %+v", guide.Themes)
	}
}

func TestGenerateChapterGuide_FallsBackToRequestedTitle(t *testing.T) {
	raw := `{"chapterTitle": "", "content": "## Reading\nLots of text.", "keyPoints": ["a", "b"]}`
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(raw)})

	guide, err := g.GenerateChapterGuide(context.Background(), "Dune", "The Desert", testPrefs, locale.English)
	if err != nil {
		t.Fatalf("GenerateChapterGuide: %v", err)
	}
	if guide.ChapterTitle != "The Desert" {
		t.Errorf("ChapterTitle = %q, want requested title fallback", guide.ChapterTitle)
	}
}

func TestGenerateQuiz_OutOfRangeIndexRejected(t *testing.T) {
	// correctAnswerIndex = 7 for a 4-option question must fail, never
	// be clamped.
	raw := `[
		{"question": "Who leads House Atreides?", "options": ["Leto", "Paul", "Gurney", "Duncan"], "correctAnswerIndex": 7, "explanation": "x"}
	]`
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(raw)})

	if _, err := g.GenerateQuiz(context.Background(), "Dune", "Ch 1", locale.English); err == nil {
		t.Fatal("expected out-of-range correctAnswerIndex to fail the quiz")
	}
}

func TestGenerateQuiz_TooFewOptionsRejected(t *testing.T) {
	raw := `[{"question": "q", "options": ["only one"], "correctAnswerIndex": 0, "explanation": "x"}]`
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(raw)})

	if _, err := g.GenerateQuiz(context.Background(), "Dune", "Ch 1", locale.English); err == nil {
		t.Fatal("expected single-option question to fail the quiz")
	}
}

func TestGenerateQuiz_Valid(t *testing.T) {
	raw := `[
		{"question": "What is the spice?", "options": ["Melange", "Salt"], "correctAnswerIndex": 0, "explanation": "Melange extends life."}
	]`
	g, mock := newTestGenerator(llm.MockResponse{Content: json.RawMessage(raw)})

	questions, err := g.GenerateQuiz(context.Background(), "Dune", "Ch 1", locale.English)
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswerIndex != 0 {
		t.Errorf("unexpected questions: %+v", questions)
	}
	if mock.Calls[0].Schema != QuizSchema {
		t.Error("quiz request did not declare the quiz schema")
	}
}

func TestGenerateFlashcards_EmptySetRejected(t *testing.T) {
	g, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(`[]`)})

	if _, err := g.GenerateFlashcards(context.Background(), "Dune", "Ch 1", locale.English); err == nil {
		t.Fatal("expected empty flashcard set to fail")
	}
}

func TestGenerate_TransportFailurePropagates(t *testing.T) {
	g, _ := newTestGenerator(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	if _, err := g.GenerateQuiz(context.Background(), "Dune", "Ch 1", locale.English); err == nil {
		t.Fatal("expected transport failure to propagate")
	}
}

func TestUserPreferences_Validate(t *testing.T) {
	if err := testPrefs.Validate(); err != nil {
		t.Errorf("valid prefs rejected: %v", err)
	}

	bad := UserPreferences{Goal: "Speed Reading", PriorKnowledge: KnowledgeNone}
	if err := bad.Validate(); err == nil {
		t.Error("unknown goal accepted")
	}

	badInterest := UserPreferences{Goal: GoalCasualReading, Interests: []string{"Cooking"}, PriorKnowledge: KnowledgeNone}
	if err := badInterest.Validate(); err == nil {
		t.Error("unknown interest accepted")
	}
}
