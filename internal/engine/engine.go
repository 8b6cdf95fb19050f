package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/ingest"
	"github.com/anay/litquest/internal/llm"
	"github.com/anay/litquest/internal/locale"
	"github.com/anay/litquest/internal/nav"
	"github.com/anay/litquest/internal/progress"
	"github.com/anay/litquest/internal/roleplay"
	"github.com/anay/litquest/internal/store"
)

// Sentinel errors for illegal orchestrator calls.
var (
	ErrBusy          = errors.New("a generation is already running")
	ErrNoCourse      = errors.New("no course is active")
	ErrCourseActive  = errors.New("a course is already active")
	ErrChapterLocked = errors.New("chapter is locked")
	ErrNoDraft       = errors.New("no book has been chosen")
	ErrStale         = errors.New("course was exited while generating")
)

// CourseState is everything the UI needs to render an active course.
// Snapshots returned by the orchestrator are copies; mutating them has
// no effect on the engine.
type CourseState struct {
	Book       course.Book
	Chapters   []course.Chapter
	StudyGuide *course.StudyGuide
	XP         int
	Level      int
}

// ActivityRun is one launched activity. Content carries the generated
// payload for its kind; Chat is set only for roleplay.
type ActivityRun struct {
	Kind      course.ActivityKind
	ChapterID int
	Content   course.Activity
	Chat      *roleplay.Session
}

// Orchestrator drives the whole course lifecycle: draft intake,
// two-stage generation, chapter navigation, activity runs, and XP.
// All mutating methods are safe for concurrent use; blocking
// generation happens outside the lock so the UI can keep polling
// Busy and Stage.
type Orchestrator struct {
	mu sync.Mutex

	gen      *course.Generator
	provider llm.Provider
	events   store.EventRepo
	loc      locale.Locale

	draft *ingest.Source
	prefs *course.UserPreferences

	state  *CourseState
	nav    *nav.Navigator
	guides map[int]*course.ChapterGuide
	runID  string

	busy  bool
	stage string

	// epoch invalidates in-flight generations; ExitCourse bumps it so
	// a slow completion from a previous course cannot install itself.
	epoch uint64
}

// New creates an orchestrator. events may be a NopEventRepo when no
// store is configured.
func New(provider llm.Provider, cfg course.Config, events store.EventRepo) *Orchestrator {
	return &Orchestrator{
		gen:      course.NewGenerator(provider, cfg),
		provider: provider,
		events:   events,
		loc:      locale.Default,
		nav:      nav.New(),
		guides:   make(map[int]*course.ChapterGuide),
	}
}

// Locale returns the active display language.
func (o *Orchestrator) Locale() locale.Locale {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loc
}

// ToggleLocale flips between English and Chinese. Only allowed before
// a course exists; generated content does not switch languages.
func (o *Orchestrator) ToggleLocale() (locale.Locale, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != nil {
		return o.loc, ErrCourseActive
	}
	o.loc = o.loc.Toggle()
	return o.loc, nil
}

// Busy reports whether a generation is in flight, with its stage
// label for the UI.
func (o *Orchestrator) Busy() (bool, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy, o.stage
}

// SetDraft records the book the next course will be built from.
func (o *Orchestrator) SetDraft(src ingest.Source) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != nil {
		return ErrCourseActive
	}
	o.draft = &src
	o.prefs = nil
	return nil
}

// Draft returns the pending book draft, if any.
func (o *Orchestrator) Draft() *ingest.Source {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.draft == nil {
		return nil
	}
	d := *o.draft
	return &d
}

// ConfirmPreferences validates and records the learner's choices for
// the next course.
func (o *Orchestrator) ConfirmPreferences(p course.UserPreferences) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != nil {
		return ErrCourseActive
	}
	if o.draft == nil {
		return ErrNoDraft
	}
	if err := p.Validate(); err != nil {
		return err
	}
	o.prefs = &p
	return nil
}

// BeginCourse runs the full course build: the chapter plan and the
// study guide are generated in parallel and the course is installed
// only when both succeed. On failure the draft and preferences are
// kept so the learner can retry. Blocks until done; call from a
// background goroutine.
func (o *Orchestrator) BeginCourse(ctx context.Context) (CourseState, error) {
	o.mu.Lock()
	if o.state != nil {
		o.mu.Unlock()
		return CourseState{}, ErrCourseActive
	}
	if o.busy {
		o.mu.Unlock()
		return CourseState{}, ErrBusy
	}
	if o.draft == nil {
		o.mu.Unlock()
		return CourseState{}, ErrNoDraft
	}
	if o.prefs == nil {
		o.mu.Unlock()
		return CourseState{}, fmt.Errorf("preferences not confirmed")
	}
	draft := *o.draft
	prefs := *o.prefs
	loc := o.loc
	epoch := o.epoch
	o.busy = true
	o.stage = loc.T().Creating
	o.mu.Unlock()

	var (
		wg       sync.WaitGroup
		chapters []course.Chapter
		guide    *course.StudyGuide
		planErr  error
		guideErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		chapters, planErr = o.gen.GeneratePlan(ctx, draft.Title, draft.Excerpt, prefs, loc)
	}()
	go func() {
		defer wg.Done()
		guide, guideErr = o.gen.GenerateStudyGuide(ctx, draft.Title, draft.Excerpt, loc)
	}()
	wg.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	o.stage = ""

	if o.epoch != epoch {
		// the learner moved on while we were generating
		return CourseState{}, ErrStale
	}
	if planErr != nil {
		return CourseState{}, planErr
	}
	if guideErr != nil {
		return CourseState{}, guideErr
	}

	o.state = &CourseState{
		Book: course.Book{
			Title:         draft.Title,
			TotalChapters: len(chapters),
		},
		Chapters:   chapters,
		StudyGuide: guide,
		XP:         0,
		Level:      progress.Level(0),
	}
	o.nav = nav.New()
	o.guides = make(map[int]*course.ChapterGuide)
	o.runID = uuid.NewString()
	o.draft = nil

	_ = o.events.AppendCourse(ctx, store.CourseEventData{
		RunID:     o.runID,
		Kind:      store.EventCourseCreated,
		BookTitle: draft.Title,
	})

	return o.snapshotLocked(), nil
}

// State returns a snapshot of the active course, or false when none
// exists.
func (o *Orchestrator) State() (CourseState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return CourseState{}, false
	}
	return o.snapshotLocked(), true
}

func (o *Orchestrator) snapshotLocked() CourseState {
	s := *o.state
	s.Chapters = make([]course.Chapter, len(o.state.Chapters))
	copy(s.Chapters, o.state.Chapters)
	return s
}

// Nav reports the learner's current position.
func (o *Orchestrator) Nav() (nav.Place, int, course.ActivityKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nav.Place(), o.nav.ChapterID(), o.nav.Activity()
}

// StudyGuideOpen reports whether the overlay is showing.
func (o *Orchestrator) StudyGuideOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nav.StudyGuideOpen()
}

// ToggleStudyGuide flips the study guide overlay.
func (o *Orchestrator) ToggleStudyGuide() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return ErrNoCourse
	}
	o.nav.ToggleStudyGuide()
	return nil
}

// EnterChapter opens the hub of an unlocked chapter, generating its
// reading guide on first visit. Guides are memoized for the lifetime
// of the course; re-entering a chapter never re-generates. Blocks
// while generating; call from a background goroutine.
func (o *Orchestrator) EnterChapter(ctx context.Context, id int) (*course.ChapterGuide, error) {
	o.mu.Lock()
	if o.state == nil {
		o.mu.Unlock()
		return nil, ErrNoCourse
	}
	if o.busy {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	ch, err := o.chapterLocked(id)
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}
	if ch.Locked {
		o.mu.Unlock()
		return nil, ErrChapterLocked
	}

	if cached, ok := o.guides[id]; ok {
		if err := o.nav.OpenHub(id); err != nil {
			o.mu.Unlock()
			return nil, err
		}
		o.appendCourseEventLocked(ctx, store.EventChapterEntered, id, "", 0)
		o.mu.Unlock()
		return cached, nil
	}

	title := ch.Title
	book := o.state.Book.Title
	prefs := o.prefsForCourseLocked()
	loc := o.loc
	epoch := o.epoch
	o.busy = true
	o.stage = loc.Preparing(title)
	o.mu.Unlock()

	guide, genErr := o.gen.GenerateChapterGuide(ctx, book, title, prefs, loc)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	o.stage = ""

	if o.epoch != epoch {
		return nil, ErrStale
	}
	if genErr != nil {
		return nil, genErr
	}

	o.guides[id] = guide
	if err := o.nav.OpenHub(id); err != nil {
		return nil, err
	}
	o.appendCourseEventLocked(ctx, store.EventChapterEntered, id, "", 0)
	return guide, nil
}

// ChapterGuide returns the memoized guide for a chapter, if one has
// been generated.
func (o *Orchestrator) ChapterGuide(id int) (*course.ChapterGuide, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	g, ok := o.guides[id]
	return g, ok
}

// LaunchActivity starts an activity inside the open hub. Quiz and
// flashcard content is generated before the activity opens; roleplay
// opens immediately and the character speaks on Start. Blocks while
// generating; call from a background goroutine.
func (o *Orchestrator) LaunchActivity(ctx context.Context, kind course.ActivityKind) (*ActivityRun, error) {
	o.mu.Lock()
	if o.state == nil {
		o.mu.Unlock()
		return nil, ErrNoCourse
	}
	if o.busy {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	chapterID := o.nav.ChapterID()
	ch, err := o.chapterLocked(chapterID)
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}
	if !ch.Offers(kind) {
		o.mu.Unlock()
		return nil, fmt.Errorf("chapter %d does not offer %s", chapterID, kind)
	}

	book := o.state.Book.Title
	title := ch.Title
	loc := o.loc

	if kind == course.ActivityRoleplay {
		if err := o.nav.LaunchActivity(kind); err != nil {
			o.mu.Unlock()
			return nil, err
		}
		run := &ActivityRun{
			Kind:      kind,
			ChapterID: chapterID,
			Content:   course.RoleplayActivity{},
			Chat:      roleplay.NewSession(o.provider, book, title, loc),
		}
		o.mu.Unlock()
		return run, nil
	}

	label := loc.T().Quiz
	if kind == course.ActivityFlashcards {
		label = loc.T().Flashcards
	}
	epoch := o.epoch
	o.busy = true
	o.stage = loc.Preparing(label)
	o.mu.Unlock()

	run := &ActivityRun{Kind: kind, ChapterID: chapterID}
	var genErr error
	switch kind {
	case course.ActivityQuiz:
		var questions []course.QuizQuestion
		questions, genErr = o.gen.GenerateQuiz(ctx, book, title, loc)
		run.Content = course.QuizActivity{Questions: questions}
	case course.ActivityFlashcards:
		var cards []course.Flashcard
		cards, genErr = o.gen.GenerateFlashcards(ctx, book, title, loc)
		run.Content = course.FlashcardActivity{Cards: cards}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	o.stage = ""

	if o.epoch != epoch {
		return nil, ErrStale
	}
	if genErr != nil {
		return nil, genErr
	}
	if err := o.nav.LaunchActivity(kind); err != nil {
		return nil, err
	}
	return run, nil
}

// CompleteActivity records a finished activity run: XP is awarded,
// the chapter is marked completed with its successor unlocked, and
// the learner returns to the hub. score is the number of correct
// answers for quizzes and ignored otherwise.
func (o *Orchestrator) CompleteActivity(ctx context.Context, kind course.ActivityKind, score int) (CourseState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return CourseState{}, ErrNoCourse
	}
	if o.nav.Place() != nav.PlaceActivity || o.nav.Activity() != kind {
		return CourseState{}, fmt.Errorf("no %s activity is running", kind)
	}

	chapterID := o.nav.ChapterID()
	chapters, err := progress.Complete(o.state.Chapters, chapterID)
	if err != nil {
		return CourseState{}, err
	}

	xp := progress.Award(kind, score)
	o.state.Chapters = chapters
	o.state.XP += xp
	o.state.Level = progress.Level(o.state.XP)

	if err := o.nav.BackToHub(); err != nil {
		return CourseState{}, err
	}

	o.appendCourseEventLocked(ctx, store.EventActivityCompleted, chapterID, string(kind), xp)
	return o.snapshotLocked(), nil
}

// AbandonActivity leaves the running activity without any award.
func (o *Orchestrator) AbandonActivity() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return ErrNoCourse
	}
	return o.nav.BackToHub()
}

// CloseHub returns from the open hub to the course map.
func (o *Orchestrator) CloseHub() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return ErrNoCourse
	}
	return o.nav.CloseHub()
}

// ExitCourse discards the active course and all of its memoized
// content. Progress is not persisted; a new course starts from
// scratch. Any in-flight generation is abandoned when it completes.
func (o *Orchestrator) ExitCourse(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return ErrNoCourse
	}

	o.appendCourseEventLocked(ctx, store.EventCourseExited, 0, "", o.state.XP)

	o.epoch++
	o.state = nil
	o.prefs = nil
	o.guides = make(map[int]*course.ChapterGuide)
	o.runID = ""
	o.nav = nav.New()
	return nil
}

func (o *Orchestrator) chapterLocked(id int) (course.Chapter, error) {
	for _, c := range o.state.Chapters {
		if c.ID == id {
			return c, nil
		}
	}
	return course.Chapter{}, fmt.Errorf("unknown chapter id %d", id)
}

// prefsForCourseLocked returns the confirmed preferences, or defaults
// when the course predates them being cleared.
func (o *Orchestrator) prefsForCourseLocked() course.UserPreferences {
	if o.prefs != nil {
		return *o.prefs
	}
	return course.UserPreferences{
		Goal:           course.GoalCasualReading,
		PriorKnowledge: course.KnowledgeNone,
	}
}

func (o *Orchestrator) appendCourseEventLocked(ctx context.Context, kind string, chapterID int, activity string, xp int) {
	book := ""
	if o.state != nil {
		book = o.state.Book.Title
	}
	_ = o.events.AppendCourse(ctx, store.CourseEventData{
		RunID:     o.runID,
		Kind:      kind,
		BookTitle: book,
		ChapterID: chapterID,
		Activity:  activity,
		XP:        xp,
	})
}
