package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestAppendAndStats_LLMRequests(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "mock", Purpose: "chapter-plan", Success: true, InputTokens: 100, OutputTokens: 50},
		{Provider: "mock", Model: "mock", Purpose: "quiz", Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	stats, err := repo.LLMStats(ctx)
	if err != nil {
		t.Fatalf("LLMStats: %v", err)
	}
	if stats.Requests != 2 {
		t.Errorf("Requests = %d, want 2", stats.Requests)
	}
	if stats.Failures != 1 {
		t.Errorf("Failures = %d, want 1", stats.Failures)
	}
	if stats.InputTokens != 100 || stats.OutputTokens != 50 {
		t.Errorf("tokens = %d/%d, want 100/50", stats.InputTokens, stats.OutputTokens)
	}
}

func TestAppendAndStats_CourseEvents(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	events := []CourseEventData{
		{RunID: "run-1", Kind: EventCourseCreated, BookTitle: "Dune"},
		{RunID: "run-1", Kind: EventChapterEntered, BookTitle: "Dune", ChapterID: 1},
		{RunID: "run-1", Kind: EventActivityCompleted, BookTitle: "Dune", ChapterID: 1, Activity: "QUIZ", XP: 80},
		{RunID: "run-1", Kind: EventActivityCompleted, BookTitle: "Dune", ChapterID: 2, Activity: "FLASHCARDS", XP: 50},
		{RunID: "run-1", Kind: EventCourseExited, BookTitle: "Dune"},
	}
	for _, e := range events {
		if err := repo.AppendCourse(ctx, e); err != nil {
			t.Fatalf("AppendCourse: %v", err)
		}
	}

	stats, err := repo.CourseStats(ctx)
	if err != nil {
		t.Fatalf("CourseStats: %v", err)
	}
	if stats.CoursesCreated != 1 {
		t.Errorf("CoursesCreated = %d, want 1", stats.CoursesCreated)
	}
	if stats.ChaptersEntered != 1 {
		t.Errorf("ChaptersEntered = %d, want 1", stats.ChaptersEntered)
	}
	if stats.ActivitiesCompleted != 2 {
		t.Errorf("ActivitiesCompleted = %d, want 2", stats.ActivitiesCompleted)
	}
	if stats.TotalXP != 130 {
		t.Errorf("TotalXP = %d, want 130", stats.TotalXP)
	}
}

func TestCourseStats_ExitEventXPNotDoubleCounted(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	// The exit event records the run's cumulative XP for the log; it
	// must not be added on top of the activity completions.
	events := []CourseEventData{
		{RunID: "run-1", Kind: EventCourseCreated, BookTitle: "The Little Prince"},
		{RunID: "run-1", Kind: EventActivityCompleted, BookTitle: "The Little Prince", ChapterID: 1, Activity: "QUIZ", XP: 40},
		{RunID: "run-1", Kind: EventCourseExited, BookTitle: "The Little Prince", XP: 40},
	}
	for _, e := range events {
		if err := repo.AppendCourse(ctx, e); err != nil {
			t.Fatalf("AppendCourse: %v", err)
		}
	}

	stats, err := repo.CourseStats(ctx)
	if err != nil {
		t.Fatalf("CourseStats: %v", err)
	}
	if stats.TotalXP != 40 {
		t.Errorf("TotalXP = %d, want 40", stats.TotalXP)
	}
}

func TestOpen_CreatesTables(t *testing.T) {
	st := openTestStore(t)

	// Tables exist; a second migrate on reopen must be a no-op.
	var name string
	err := st.DB().QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='course_events'`,
	).Scan(&name)
	if err != nil {
		t.Fatalf("course_events table missing: %v", err)
	}
}
