package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Course event kinds.
const (
	EventCourseCreated     = "course_created"
	EventChapterEntered    = "chapter_entered"
	EventActivityCompleted = "activity_completed"
	EventCourseExited      = "course_exited"
)

// LLMRequestEventData describes one LLM request for the event log.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// CourseEventData describes one course-level event.
type CourseEventData struct {
	RunID     string
	Kind      string
	BookTitle string
	ChapterID int
	Activity  string
	XP        int
}

// LLMStats summarizes the LLM request log.
type LLMStats struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// CourseStats summarizes the course event log.
type CourseStats struct {
	CoursesCreated      int
	ChaptersEntered     int
	ActivitiesCompleted int
	TotalXP             int
}

// EventRepo appends and summarizes events. Append failures must never
// fail the operation being logged.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	AppendCourse(ctx context.Context, data CourseEventData) error
	LLMStats(ctx context.Context) (LLMStats, error)
	CourseStats(ctx context.Context) (CourseStats, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_request_events
		 (created_at, provider, model, purpose, latency_ms, success,
		  input_tokens, output_tokens, request_body, response_body, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		data.Provider, data.Model, data.Purpose, data.LatencyMs,
		boolToInt(data.Success), data.InputTokens, data.OutputTokens,
		data.RequestBody, data.ResponseBody, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append llm request event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendCourse(ctx context.Context, data CourseEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO course_events
		 (created_at, run_id, kind, book_title, chapter_id, activity, xp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		data.RunID, data.Kind, data.BookTitle, data.ChapterID, data.Activity, data.XP,
	)
	if err != nil {
		return fmt.Errorf("append course event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMStats(ctx context.Context) (LLMStats, error) {
	var s LLMStats
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(input_tokens), 0),
		        COALESCE(SUM(output_tokens), 0)
		 FROM llm_request_events`)
	if err := row.Scan(&s.Requests, &s.Failures, &s.InputTokens, &s.OutputTokens); err != nil {
		return LLMStats{}, fmt.Errorf("llm stats: %w", err)
	}
	return s, nil
}

// CourseStats summarizes the course event log. Exit events carry the
// run's cumulative XP, so only activity completions count toward TotalXP.
func (r *eventRepo) CourseStats(ctx context.Context) (CourseStats, error) {
	var s CourseStats
	row := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = ? THEN xp ELSE 0 END), 0)
		 FROM course_events`,
		EventCourseCreated, EventChapterEntered, EventActivityCompleted,
		EventActivityCompleted)
	if err := row.Scan(&s.CoursesCreated, &s.ChaptersEntered, &s.ActivitiesCompleted, &s.TotalXP); err != nil {
		return CourseStats{}, fmt.Errorf("course stats: %w", err)
	}
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NopEventRepo discards all events. Used when the local database cannot
// be opened; the app keeps working without a log.
type NopEventRepo struct{}

func (NopEventRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error { return nil }
func (NopEventRepo) AppendCourse(context.Context, CourseEventData) error         { return nil }
func (NopEventRepo) LLMStats(context.Context) (LLMStats, error)                  { return LLMStats{}, nil }
func (NopEventRepo) CourseStats(context.Context) (CourseStats, error)            { return CourseStats{}, nil }
