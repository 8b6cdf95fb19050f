package prefs

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

type step int

const (
	stepGoal step = iota
	stepInterests
	stepKnowledge
	stepGenerating
)

type courseReadyMsg struct{ state engine.CourseState }
type courseFailedMsg struct{ err error }

// PrefsScreen walks the learner through goal, interests and prior
// knowledge, then builds the course.
type PrefsScreen struct {
	orch      *engine.Orchestrator
	mapScreen func() screen.Screen

	step      step
	cursor    int
	interests map[int]bool
	prefs     course.UserPreferences
	errMsg    string
}

var _ screen.Screen = (*PrefsScreen)(nil)
var _ screen.KeyHintProvider = (*PrefsScreen)(nil)

// New creates the preferences screen. mapScreen builds the course map
// shown once generation succeeds.
func New(orch *engine.Orchestrator, mapScreen func() screen.Screen) *PrefsScreen {
	return &PrefsScreen{
		orch:      orch,
		mapScreen: mapScreen,
		interests: make(map[int]bool),
	}
}

func (p *PrefsScreen) Title() string {
	return "Your Quest"
}

func (p *PrefsScreen) Init() tea.Cmd {
	return nil
}

func (p *PrefsScreen) KeyHints() []layout.KeyHint {
	switch p.step {
	case stepInterests:
		return []layout.KeyHint{
			{Key: "Space", Description: "Toggle"},
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	case stepGenerating:
		return nil
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (p *PrefsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case courseReadyMsg:
		next := p.mapScreen()
		return p, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}

	case courseFailedMsg:
		p.errMsg = msg.err.Error()
		p.step = stepKnowledge
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PrefsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if p.step == stepGenerating {
		return p, nil
	}

	options := p.currentOptions()

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(options)-1 {
			p.cursor++
		}
	case " ":
		if p.step == stepInterests {
			p.interests[p.cursor] = !p.interests[p.cursor]
		}
	case "enter":
		return p.advance()
	}
	return p, nil
}

func (p *PrefsScreen) currentOptions() []string {
	switch p.step {
	case stepGoal:
		return course.Goals
	case stepInterests:
		return course.Interests
	case stepKnowledge:
		return course.KnowledgeLevels
	}
	return nil
}

func (p *PrefsScreen) advance() (screen.Screen, tea.Cmd) {
	switch p.step {
	case stepGoal:
		p.prefs.Goal = course.Goals[p.cursor]
		p.step = stepInterests
		p.cursor = 0

	case stepInterests:
		p.prefs.Interests = nil
		for i, on := range p.interests {
			if on {
				p.prefs.Interests = append(p.prefs.Interests, course.Interests[i])
			}
		}
		p.step = stepKnowledge
		p.cursor = 0

	case stepKnowledge:
		p.prefs.PriorKnowledge = course.KnowledgeLevels[p.cursor]
		if err := p.orch.ConfirmPreferences(p.prefs); err != nil {
			p.errMsg = err.Error()
			return p, nil
		}
		p.errMsg = ""
		p.step = stepGenerating
		return p, p.generate()
	}
	return p, nil
}

// generate runs the whole course build off the UI goroutine.
func (p *PrefsScreen) generate() tea.Cmd {
	orch := p.orch
	return func() tea.Msg {
		state, err := orch.BeginCourse(context.Background())
		if err != nil {
			return courseFailedMsg{err: err}
		}
		return courseReadyMsg{state: state}
	}
}

func (p *PrefsScreen) View(width, height int) string {
	if p.step == stepGenerating {
		_, stage := p.orch.Busy()
		if stage == "" {
			stage = p.orch.Locale().T().Creating
		}
		content := theme.Title.Render(stage) + "\n\n" +
			theme.Hint.Render("This can take a little while")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}

	var b strings.Builder

	draft := p.orch.Draft()
	if draft != nil {
		b.WriteString(theme.Subtitle.Render(draft.Title) + "\n\n")
	}

	b.WriteString(theme.Title.Render(p.stepPrompt()) + "\n\n")

	if p.step == stepInterests {
		for i, opt := range p.currentOptions() {
			mark := "[ ]"
			if p.interests[i] {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s", mark, opt)
			if i == p.cursor {
				b.WriteString(theme.Selected.Render("  ▸ "+line) + "\n")
			} else {
				b.WriteString(theme.Unselected.Render("    "+line) + "\n")
			}
		}
	} else {
		items := make([]components.MenuItem, 0, len(p.currentOptions()))
		for _, opt := range p.currentOptions() {
			items = append(items, components.MenuItem{Label: opt})
		}
		b.WriteString(components.Menu{Items: items, Selected: p.cursor}.View())
	}

	if p.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Render(p.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (p *PrefsScreen) stepPrompt() string {
	switch p.step {
	case stepGoal:
		return "What brings you to this book?"
	case stepInterests:
		return "What should we focus on?"
	case stepKnowledge:
		return "How well do you know it already?"
	}
	return ""
}
