package course

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anay/litquest/internal/llm"
	"github.com/anay/litquest/internal/locale"
)

// Generator produces typed course entities from the LLM provider.
// Each method issues exactly one structured request; the schema is
// declared at the call site and validated by the provider, with
// semantic checks (index bounds, enum membership, non-emptiness)
// applied here after decoding.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// NewGenerator creates a course content generator.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

type chapterOutput struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Activities  []string `json:"activities"`
}

// GeneratePlan produces the chapter sequence for a course.
// Whatever ids the model returned, the result is renumbered to a dense
// 1..N sequence with chapter 1 unlocked and the rest locked; an
// unrecognized activity kind on any chapter fails the whole plan.
func (g *Generator) GeneratePlan(ctx context.Context, bookTitle, excerpt string, prefs UserPreferences, loc locale.Locale) ([]Chapter, error) {
	ctx = llm.WithPurpose(ctx, "chapter-plan")

	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPlanPrompt(bookTitle, excerpt, prefs, loc)},
		},
		Schema:      ChapterPlanSchema,
		MaxTokens:   g.cfg.PlanMaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chapter plan generation: %w", err)
	}

	var out []chapterOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse chapter plan: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("chapter plan is empty")
	}

	chapters := make([]Chapter, len(out))
	for i, c := range out {
		kinds := make([]ActivityKind, 0, len(c.Activities))
		for _, a := range c.Activities {
			kind, err := ParseActivityKind(a)
			if err != nil {
				return nil, fmt.Errorf("chapter %q: %w", c.Title, err)
			}
			kinds = append(kinds, kind)
		}
		chapters[i] = Chapter{
			ID:          i + 1, // dense sequential ids, regardless of model output
			Title:       c.Title,
			Description: c.Description,
			Activities:  kinds,
			Locked:      i != 0,
			Completed:   false,
		}
	}

	return chapters, nil
}

type characterOutput struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

type themeOutput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type studyGuideOutput struct {
	GlobalSummary string            `json:"globalSummary"`
	Characters    []characterOutput `json:"characters"`
	Themes        []themeOutput     `json:"themes"`
}

// GenerateStudyGuide produces the book-level study guide.
func (g *Generator) GenerateStudyGuide(ctx context.Context, bookTitle, excerpt string, loc locale.Locale) (*StudyGuide, error) {
	ctx = llm.WithPurpose(ctx, "study-guide")

	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildStudyGuidePrompt(bookTitle, excerpt, loc)},
		},
		Schema:      StudyGuideSchema,
		MaxTokens:   g.cfg.StudyGuideMaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("study guide generation: %w", err)
	}

	var out studyGuideOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse study guide: %w", err)
	}
	if out.GlobalSummary == "" {
		return nil, fmt.Errorf("study guide has no summary")
	}
	if len(out.Characters) == 0 || len(out.Themes) == 0 {
		return nil, fmt.Errorf("study guide is missing characters or themes")
	}

	guide := &StudyGuide{GlobalSummary: out.GlobalSummary}
	for _, c := range out.Characters {
		guide.Characters = append(guide.Characters, Character(c))
	}
	for _, t := range out.Themes {
		guide.Themes = append(guide.Themes, Theme(t))
	}
	return guide, nil
}

type chapterGuideOutput struct {
	ChapterTitle string   `json:"chapterTitle"`
	Content      string   `json:"content"`
	KeyPoints    []string `json:"keyPoints"`
}

// GenerateChapterGuide produces the guided-reading module for one chapter.
func (g *Generator) GenerateChapterGuide(ctx context.Context, bookTitle, chapterTitle string, prefs UserPreferences, loc locale.Locale) (*ChapterGuide, error) {
	ctx = llm.WithPurpose(ctx, "chapter-guide")

	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildChapterGuidePrompt(bookTitle, chapterTitle, prefs, loc)},
		},
		Schema:      ChapterGuideSchema,
		MaxTokens:   g.cfg.ChapterGuideMaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chapter guide generation: %w", err)
	}

	var out chapterGuideOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse chapter guide: %w", err)
	}
	if out.Content == "" {
		return nil, fmt.Errorf("chapter guide has no content")
	}

	title := out.ChapterTitle
	if title == "" {
		title = chapterTitle
	}

	return &ChapterGuide{
		ChapterTitle: title,
		Content:      out.Content,
		KeyPoints:    out.KeyPoints,
	}, nil
}

type quizQuestionOutput struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// GenerateQuiz produces the question set for one quiz run.
// Every question must have at least two options and an in-bounds
// correct index; a single bad question rejects the whole set.
func (g *Generator) GenerateQuiz(ctx context.Context, bookTitle, chapterTitle string, loc locale.Locale) ([]QuizQuestion, error) {
	ctx = llm.WithPurpose(ctx, "quiz")

	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuizPrompt(bookTitle, chapterTitle, loc)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.cfg.ActivityMaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	var out []quizQuestionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("quiz is empty")
	}

	questions := make([]QuizQuestion, len(out))
	for i, q := range out {
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("question %d has %d options, need at least 2", i+1, len(q.Options))
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return nil, fmt.Errorf("question %d: correct answer index %d out of range [0,%d)", i+1, q.CorrectAnswerIndex, len(q.Options))
		}
		questions[i] = QuizQuestion(q)
	}

	return questions, nil
}

type flashcardOutput struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GenerateFlashcards produces the card set for one flashcard run.
func (g *Generator) GenerateFlashcards(ctx context.Context, bookTitle, chapterTitle string, loc locale.Locale) ([]Flashcard, error) {
	ctx = llm.WithPurpose(ctx, "flashcards")

	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildFlashcardPrompt(bookTitle, chapterTitle, loc)},
		},
		Schema:      FlashcardSchema,
		MaxTokens:   g.cfg.ActivityMaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("flashcard generation: %w", err)
	}

	var out []flashcardOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse flashcards: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("flashcard set is empty")
	}

	cards := make([]Flashcard, len(out))
	for i, c := range out {
		cards[i] = Flashcard(c)
	}
	return cards, nil
}
