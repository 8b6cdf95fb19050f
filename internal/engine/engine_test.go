package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/ingest"
	"github.com/anay/litquest/internal/llm"
	"github.com/anay/litquest/internal/locale"
	"github.com/anay/litquest/internal/nav"
	"github.com/anay/litquest/internal/store"
)

const planJSON = `[
	{"id": 1, "title": "Arrival", "description": "d", "activities": ["QUIZ", "ROLEPLAY"]},
	{"id": 2, "title": "Betrayal", "description": "d", "activities": ["FLASHCARDS"]},
	{"id": 3, "title": "The Desert", "description": "d", "activities": ["QUIZ"]}
]`

const studyGuideJSON = `{
	"globalSummary": "## Summary",
	"characters": [{"name": "Paul", "role": "Protagonist", "description": "d"}],
	"themes": [{"name": "Power", "description": "d"}]
}`

const chapterGuideJSON = `{"chapterTitle": "Arrival", "content": "## Read this", "keyPoints": ["a"]}`

const quizJSON = `[
	{"question": "q1", "options": ["a", "b"], "correctAnswerIndex": 0, "explanation": "e"},
	{"question": "q2", "options": ["a", "b"], "correctAnswerIndex": 1, "explanation": "e"}
]`

const cardsJSON = `[{"front": "Spice", "back": "Melange"}]`

func mockRaw(raw string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(raw)}
}

func newOrchestrator(t *testing.T, responses ...llm.MockResponse) (*Orchestrator, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	return New(mock, course.DefaultConfig(), store.NopEventRepo{}), mock
}

func beginCourse(t *testing.T, o *Orchestrator) CourseState {
	t.Helper()
	if err := o.SetDraft(ingest.Source{Title: "Dune"}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	prefs := course.UserPreferences{Goal: course.GoalDeepAnalysis, PriorKnowledge: course.KnowledgeBasic}
	if err := o.ConfirmPreferences(prefs); err != nil {
		t.Fatalf("ConfirmPreferences: %v", err)
	}
	state, err := o.BeginCourse(context.Background())
	if err != nil {
		t.Fatalf("BeginCourse: %v", err)
	}
	return state
}

func TestBeginCourse_InstallsPlanAndGuideTogether(t *testing.T) {
	// Course creation issues both requests concurrently; responses are
	// routed by schema so arrival order does not matter.
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))

	state := beginCourse(t, o)

	if len(state.Chapters) != 3 {
		t.Fatalf("chapters = %d, want 3", len(state.Chapters))
	}
	if state.Chapters[0].Locked || !state.Chapters[1].Locked {
		t.Error("unlock state wrong after creation")
	}
	if state.StudyGuide == nil || state.StudyGuide.GlobalSummary == "" {
		t.Error("study guide missing")
	}
	if state.XP != 0 || state.Level != 1 {
		t.Errorf("fresh course XP=%d level=%d, want 0 and 1", state.XP, state.Level)
	}
	if mock.CallCount() != 2 {
		t.Errorf("stage A made %d requests, want 2", mock.CallCount())
	}
	if o.Draft() != nil {
		t.Error("draft survived course creation")
	}
}

func TestBeginCourse_FailureKeepsDraft(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	if err := o.SetDraft(ingest.Source{Title: "Dune"}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	prefs := course.UserPreferences{Goal: course.GoalExamPrep, PriorKnowledge: course.KnowledgeNone}
	if err := o.ConfirmPreferences(prefs); err != nil {
		t.Fatalf("ConfirmPreferences: %v", err)
	}

	if _, err := o.BeginCourse(context.Background()); err == nil {
		t.Fatal("BeginCourse should have failed")
	}

	if _, ok := o.State(); ok {
		t.Error("half-built course was installed")
	}
	if o.Draft() == nil {
		t.Error("draft lost on failure; retry impossible")
	}
	if busy, _ := o.Busy(); busy {
		t.Error("orchestrator stuck busy after failure")
	}
}

func TestBeginCourse_RequiresDraftAndPrefs(t *testing.T) {
	o, _ := newOrchestrator(t)

	if _, err := o.BeginCourse(context.Background()); !errors.Is(err, ErrNoDraft) {
		t.Errorf("BeginCourse without draft: %v", err)
	}

	_ = o.SetDraft(ingest.Source{Title: "Dune"})
	if _, err := o.BeginCourse(context.Background()); err == nil {
		t.Error("BeginCourse without preferences succeeded")
	}

	bad := course.UserPreferences{Goal: "Skimming", PriorKnowledge: course.KnowledgeNone}
	if err := o.ConfirmPreferences(bad); err == nil {
		t.Error("invalid preferences accepted")
	}
}

func TestEnterChapter_MemoizesGuide(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	mock.AddResponse(mockRaw(chapterGuideJSON))

	guide, err := o.EnterChapter(context.Background(), 1)
	if err != nil {
		t.Fatalf("EnterChapter: %v", err)
	}
	if guide.Content == "" {
		t.Fatal("empty chapter guide")
	}
	calls := mock.CallCount()

	if err := o.CloseHub(); err != nil {
		t.Fatalf("CloseHub: %v", err)
	}

	// second visit serves the cache; no request, no canned response needed
	again, err := o.EnterChapter(context.Background(), 1)
	if err != nil {
		t.Fatalf("second EnterChapter: %v", err)
	}
	if again != guide {
		t.Error("second visit produced a different guide")
	}
	if mock.CallCount() != calls {
		t.Errorf("re-entry made %d extra requests", mock.CallCount()-calls)
	}
}

func TestEnterChapter_LockedRejected(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	if _, err := o.EnterChapter(context.Background(), 2); !errors.Is(err, ErrChapterLocked) {
		t.Errorf("entering locked chapter: %v", err)
	}
	if _, err := o.EnterChapter(context.Background(), 99); err == nil {
		t.Error("entering unknown chapter succeeded")
	}
}

func TestLaunchQuiz_GenerateThenOpen(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	mock.AddResponse(mockRaw(chapterGuideJSON))
	if _, err := o.EnterChapter(context.Background(), 1); err != nil {
		t.Fatalf("EnterChapter: %v", err)
	}

	mock.AddResponse(mockRaw(quizJSON))
	run, err := o.LaunchActivity(context.Background(), course.ActivityQuiz)
	if err != nil {
		t.Fatalf("LaunchActivity: %v", err)
	}

	quiz, ok := run.Content.(course.QuizActivity)
	if !ok {
		t.Fatalf("run content type = %T", run.Content)
	}
	if len(quiz.Questions) != 2 {
		t.Errorf("quiz has %d questions, want 2", len(quiz.Questions))
	}
	if place, _, activity := o.Nav(); place != nav.PlaceActivity || activity != course.ActivityQuiz {
		t.Errorf("after launch: place=%s activity=%s", place, activity)
	}
}

func TestLaunchQuiz_GenerationFailureStaysInHub(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	mock.AddResponse(mockRaw(chapterGuideJSON))
	if _, err := o.EnterChapter(context.Background(), 1); err != nil {
		t.Fatalf("EnterChapter: %v", err)
	}

	mock.AddResponse(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	if _, err := o.LaunchActivity(context.Background(), course.ActivityQuiz); err == nil {
		t.Fatal("launch should have failed")
	}
	if place, chapterID, _ := o.Nav(); place != nav.PlaceHub || chapterID != 1 {
		t.Errorf("after failed launch: place=%s chapter=%d, want hub 1", place, chapterID)
	}
}

func TestLaunchActivity_NotOnMenuRejected(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	mock.AddResponse(mockRaw(chapterGuideJSON))
	if _, err := o.EnterChapter(context.Background(), 1); err != nil {
		t.Fatalf("EnterChapter: %v", err)
	}

	// chapter 1's menu has quiz and roleplay only
	if _, err := o.LaunchActivity(context.Background(), course.ActivityFlashcards); err == nil {
		t.Error("off-menu activity launched")
	}
}

func TestLaunchRoleplay_OpensWithoutGeneration(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	mock.AddResponse(mockRaw(chapterGuideJSON))
	if _, err := o.EnterChapter(context.Background(), 1); err != nil {
		t.Fatalf("EnterChapter: %v", err)
	}
	calls := mock.CallCount()

	run, err := o.LaunchActivity(context.Background(), course.ActivityRoleplay)
	if err != nil {
		t.Fatalf("LaunchActivity: %v", err)
	}
	if run.Chat == nil {
		t.Fatal("roleplay run has no session")
	}
	if run.Chat.Started() {
		t.Error("session spoke before Start")
	}
	if mock.CallCount() != calls {
		t.Error("roleplay launch made a structured request")
	}
}

func TestCompleteActivity_AwardsXPAndUnlocks(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	mock.AddResponse(mockRaw(chapterGuideJSON))
	if _, err := o.EnterChapter(context.Background(), 1); err != nil {
		t.Fatalf("EnterChapter: %v", err)
	}
	mock.AddResponse(mockRaw(quizJSON))
	if _, err := o.LaunchActivity(context.Background(), course.ActivityQuiz); err != nil {
		t.Fatalf("LaunchActivity: %v", err)
	}

	state, err := o.CompleteActivity(context.Background(), course.ActivityQuiz, 2)
	if err != nil {
		t.Fatalf("CompleteActivity: %v", err)
	}

	if state.XP != 40 {
		t.Errorf("XP = %d, want 40 for 2 correct answers", state.XP)
	}
	if !state.Chapters[0].Completed {
		t.Error("chapter 1 not completed")
	}
	if state.Chapters[1].Locked {
		t.Error("chapter 2 still locked")
	}
	if place, chapterID, _ := o.Nav(); place != nav.PlaceHub || chapterID != 1 {
		t.Errorf("after completion: place=%s chapter=%d, want hub 1", place, chapterID)
	}
}

func TestCompleteActivity_WrongKindRejected(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	if _, err := o.CompleteActivity(context.Background(), course.ActivityQuiz, 1); err == nil {
		t.Error("completion accepted with no activity running")
	}
}

func TestAbandonActivity_NoAward(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	mock.AddResponse(mockRaw(chapterGuideJSON))
	if _, err := o.EnterChapter(context.Background(), 1); err != nil {
		t.Fatalf("EnterChapter: %v", err)
	}
	mock.AddResponse(mockRaw(quizJSON))
	if _, err := o.LaunchActivity(context.Background(), course.ActivityQuiz); err != nil {
		t.Fatalf("LaunchActivity: %v", err)
	}

	if err := o.AbandonActivity(); err != nil {
		t.Fatalf("AbandonActivity: %v", err)
	}

	state, _ := o.State()
	if state.XP != 0 {
		t.Errorf("abandoned activity awarded %d XP", state.XP)
	}
	if state.Chapters[0].Completed {
		t.Error("abandoned activity completed the chapter")
	}
}

func TestToggleStudyGuide_OrthogonalOverlay(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	if err := o.ToggleStudyGuide(); err != nil {
		t.Fatalf("ToggleStudyGuide: %v", err)
	}
	if !o.StudyGuideOpen() {
		t.Fatal("overlay did not open")
	}

	mock.AddResponse(mockRaw(chapterGuideJSON))
	if _, err := o.EnterChapter(context.Background(), 1); err != nil {
		t.Fatalf("EnterChapter with overlay open: %v", err)
	}
	if !o.StudyGuideOpen() {
		t.Error("entering a chapter closed the overlay")
	}
}

func TestExitCourse_DiscardsEverything(t *testing.T) {
	o, mock := newOrchestrator(t)
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	mock.AddResponse(mockRaw(chapterGuideJSON))
	if _, err := o.EnterChapter(context.Background(), 1); err != nil {
		t.Fatalf("EnterChapter: %v", err)
	}
	if err := o.CloseHub(); err != nil {
		t.Fatalf("CloseHub: %v", err)
	}

	if err := o.ExitCourse(context.Background()); err != nil {
		t.Fatalf("ExitCourse: %v", err)
	}

	if _, ok := o.State(); ok {
		t.Error("course survived exit")
	}
	if _, ok := o.ChapterGuide(1); ok {
		t.Error("memoized guide survived exit")
	}
	if err := o.ExitCourse(context.Background()); !errors.Is(err, ErrNoCourse) {
		t.Errorf("second exit: %v", err)
	}

	// a fresh course starts from scratch
	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	state := beginCourse(t, o)
	if state.XP != 0 {
		t.Errorf("fresh course inherited %d XP", state.XP)
	}
}

// gatedProvider parks Generate calls until gate is closed, so a test
// can interleave orchestrator calls with a generation in flight. Set
// entered and gate before dispatching; both nil means pass-through.
type gatedProvider struct {
	*llm.MockProvider
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if g.gate != nil {
		g.entered <- struct{}{}
		<-g.gate
	}
	return g.MockProvider.Generate(ctx, req)
}

func TestEnterChapter_ExitDiscardsInFlightGeneration(t *testing.T) {
	mock := llm.NewMockProvider()
	gated := &gatedProvider{MockProvider: mock}
	o := New(gated, course.DefaultConfig(), store.NopEventRepo{})

	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	gated.entered = make(chan struct{})
	gated.gate = make(chan struct{})
	mock.AddResponse(mockRaw(chapterGuideJSON))

	type result struct {
		guide *course.ChapterGuide
		err   error
	}
	done := make(chan result, 1)
	go func() {
		guide, err := o.EnterChapter(context.Background(), 1)
		done <- result{guide: guide, err: err}
	}()

	<-gated.entered
	if err := o.ExitCourse(context.Background()); err != nil {
		t.Fatalf("ExitCourse: %v", err)
	}
	close(gated.gate)

	res := <-done
	if !errors.Is(res.err, ErrStale) {
		t.Fatalf("stale EnterChapter error = %v, want ErrStale", res.err)
	}
	if res.guide != nil {
		t.Error("stale completion returned a guide")
	}
	if _, ok := o.State(); ok {
		t.Error("stale completion resurrected the course")
	}
	if busy, _ := o.Busy(); busy {
		t.Error("orchestrator stuck busy after stale completion")
	}
}

func TestToggleLocale_BlockedDuringCourse(t *testing.T) {
	o, mock := newOrchestrator(t)

	loc, err := o.ToggleLocale()
	if err != nil {
		t.Fatalf("ToggleLocale: %v", err)
	}
	if loc != locale.Chinese {
		t.Errorf("locale = %s, want zh", loc)
	}
	if _, err := o.ToggleLocale(); err != nil {
		t.Fatalf("toggle back: %v", err)
	}

	mock.AddSchemaResponse("chapter-plan", mockRaw(planJSON))
	mock.AddSchemaResponse("study-guide", mockRaw(studyGuideJSON))
	beginCourse(t, o)

	if _, err := o.ToggleLocale(); !errors.Is(err, ErrCourseActive) {
		t.Errorf("toggle during course: %v", err)
	}
}
