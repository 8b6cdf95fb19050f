package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/router"
	"github.com/anay/litquest/internal/screen"
	"github.com/anay/litquest/internal/screens/chat"
	"github.com/anay/litquest/internal/screens/coursemap"
	"github.com/anay/litquest/internal/screens/flashcards"
	"github.com/anay/litquest/internal/screens/hub"
	"github.com/anay/litquest/internal/screens/landing"
	"github.com/anay/litquest/internal/screens/prefs"
	"github.com/anay/litquest/internal/screens/quiz"
	"github.com/anay/litquest/internal/screens/studyguide"
	"github.com/anay/litquest/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	orch   *engine.Orchestrator
	router *router.Router
	width  int
	height int
}

// newAppModel wires the screen graph around the orchestrator. Screens
// receive factories instead of concrete screens so the graph stays
// acyclic.
func newAppModel(orch *engine.Orchestrator) AppModel {
	var newLanding func() screen.Screen

	activityScreen := func(run *engine.ActivityRun) screen.Screen {
		switch run.Kind {
		case course.ActivityQuiz:
			return quiz.New(orch, run)
		case course.ActivityFlashcards:
			return flashcards.New(orch, run)
		default:
			return chat.New(orch, run)
		}
	}

	hubScreen := func(chapterID int, guide *course.ChapterGuide) screen.Screen {
		return hub.New(orch, chapterID, guide, activityScreen)
	}

	guidePanel := func() screen.Screen {
		return studyguide.New(orch)
	}

	mapScreen := func() screen.Screen {
		return coursemap.New(orch, hubScreen, guidePanel, newLanding)
	}

	prefsScreen := func() screen.Screen {
		return prefs.New(orch, mapScreen)
	}

	newLanding = func() screen.Screen {
		return landing.New(orch, prefsScreen)
	}

	return AppModel{
		orch:   orch,
		router: router.New(newLanding()),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	xp, level := 0, 1
	if state, ok := m.orch.State(); ok {
		xp, level = state.XP, state.Level
	}
	header := layout.RenderHeader(title, xp, level, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hinter, ok := active.(screen.KeyHintProvider); ok {
		if hints := hinter.KeyHints(); len(hints) > 0 {
			footerHints = append(hints, footerHints...)
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(orch *engine.Orchestrator) error {
	p := tea.NewProgram(newAppModel(orch))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
