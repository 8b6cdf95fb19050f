package quiz

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/router"
	"github.com/anay/litquest/internal/screen"
	"github.com/anay/litquest/internal/ui/components"
	"github.com/anay/litquest/internal/ui/layout"
	"github.com/anay/litquest/internal/ui/theme"
)

type completedMsg struct {
	state engine.CourseState
	err   error
}

// QuizScreen runs one generated question set.
type QuizScreen struct {
	orch      *engine.Orchestrator
	questions []course.QuizQuestion

	index    int
	score    int
	choice   components.MultiChoice
	answered bool
	finished bool
	xpBefore int
	xpAfter  int
	errMsg   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen from a launched run.
func New(orch *engine.Orchestrator, run *engine.ActivityRun) *QuizScreen {
	content := run.Content.(course.QuizActivity)
	q := &QuizScreen{
		orch:      orch,
		questions: content.Questions,
	}
	if state, ok := orch.State(); ok {
		q.xpBefore = state.XP
	}
	q.choice = newChoice(content.Questions[0])
	return q
}

func newChoice(q course.QuizQuestion) components.MultiChoice {
	return components.NewMultiChoice(q.Question, q.Options, q.CorrectAnswerIndex)
}

func (q *QuizScreen) Title() string {
	return q.orch.Locale().T().Quiz
}

func (q *QuizScreen) Init() tea.Cmd {
	return nil
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case q.finished:
		return []layout.KeyHint{{Key: "Enter", Description: "Back to chapter"}}
	case q.answered:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Give up"},
		}
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case completedMsg:
		if msg.err != nil {
			q.errMsg = msg.err.Error()
			return q, nil
		}
		q.finished = true
		q.xpAfter = msg.state.XP
		return q, nil

	case tea.KeyMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if q.finished {
		if msg.String() == "enter" || msg.String() == "esc" {
			return q, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return q, nil
	}

	if q.answered {
		// any key advances past the explanation
		return q.next()
	}

	if msg.String() == "esc" {
		_ = q.orch.AbandonActivity()
		return q, func() tea.Msg { return router.PopScreenMsg{} }
	}

	var cmd tea.Cmd
	q.choice, cmd = q.choice.Update(msg)
	if q.choice.Submitted {
		q.answered = true
		if q.choice.IsCorrect() {
			q.score++
		}
	}
	return q, cmd
}

func (q *QuizScreen) next() (screen.Screen, tea.Cmd) {
	q.answered = false
	q.index++
	if q.index < len(q.questions) {
		q.choice = newChoice(q.questions[q.index])
		return q, nil
	}
	return q, q.complete()
}

// complete records the run and collects the XP award.
func (q *QuizScreen) complete() tea.Cmd {
	orch := q.orch
	score := q.score
	return func() tea.Msg {
		state, err := orch.CompleteActivity(context.Background(), course.ActivityQuiz, score)
		return completedMsg{state: state, err: err}
	}
}

func (q *QuizScreen) View(width, height int) string {
	if q.finished {
		earned := q.xpAfter - q.xpBefore
		content := theme.Title.Render(fmt.Sprintf("%d / %d correct", q.score, len(q.questions))) +
			"\n\n" +
			theme.Correct.Render(fmt.Sprintf("+%d XP", earned))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(
		fmt.Sprintf("Question %d of %d", q.index+1, len(q.questions))) + "\n\n")
	b.WriteString(q.choice.View())

	if q.answered {
		b.WriteString("\n")
		if q.choice.IsCorrect() {
			b.WriteString(theme.Correct.Render("Correct!") + "\n")
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite.") + "\n")
		}
		explanation := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Width(width - 16).
			Render(q.questions[q.index].Explanation)
		b.WriteString(explanation + "\n")
	}

	if q.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Render(q.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
