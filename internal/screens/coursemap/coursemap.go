package coursemap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/progress"
	"github.com/anay/litquest/internal/router"
	"github.com/anay/litquest/internal/screen"
	"github.com/anay/litquest/internal/ui/components"
	"github.com/anay/litquest/internal/ui/layout"
	"github.com/anay/litquest/internal/ui/theme"
)

type hubReadyMsg struct {
	chapterID int
	guide     *course.ChapterGuide
}
type hubFailedMsg struct{ err error }

// HubFactory builds the hub screen for an entered chapter.
type HubFactory func(chapterID int, guide *course.ChapterGuide) screen.Screen

// MapScreen is the chapter map of the active course.
type MapScreen struct {
	orch       *engine.Orchestrator
	hubScreen  HubFactory
	guidePanel func() screen.Screen
	exitScreen func() screen.Screen

	cursor  int
	loading bool
	errMsg  string
}

var _ screen.Screen = (*MapScreen)(nil)
var _ screen.KeyHintProvider = (*MapScreen)(nil)

// New creates a course map screen. The cursor starts on the next
// playable chapter.
func New(orch *engine.Orchestrator, hubScreen HubFactory, guidePanel, exitScreen func() screen.Screen) *MapScreen {
	m := &MapScreen{
		orch:       orch,
		hubScreen:  hubScreen,
		guidePanel: guidePanel,
		exitScreen: exitScreen,
	}
	if state, ok := orch.State(); ok {
		if id := progress.Frontier(state.Chapters); id != 0 {
			for i, ch := range state.Chapters {
				if ch.ID == id {
					m.cursor = i
					break
				}
			}
		}
	}
	return m
}

func (m *MapScreen) Title() string {
	if state, ok := m.orch.State(); ok {
		return state.Book.Title
	}
	return "Course Map"
}

func (m *MapScreen) Init() tea.Cmd {
	return nil
}

func (m *MapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open chapter"},
		{Key: "G", Description: "Study guide"},
		{Key: "X", Description: "Exit course"},
	}
}

func (m *MapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case hubReadyMsg:
		m.loading = false
		hub := m.hubScreen(msg.chapterID, msg.guide)
		return m, func() tea.Msg {
			return router.PushScreenMsg{Screen: hub}
		}

	case hubFailedMsg:
		m.loading = false
		m.errMsg = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *MapScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	state, ok := m.orch.State()
	if !ok {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(state.Chapters)-1 {
			m.cursor++
		}
	case "g":
		if err := m.orch.ToggleStudyGuide(); err == nil {
			panel := m.guidePanel()
			return m, func() tea.Msg {
				return router.PushScreenMsg{Screen: panel}
			}
		}
	case "x":
		if err := m.orch.ExitCourse(context.Background()); err == nil {
			next := m.exitScreen()
			return m, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: next}
			}
		}
	case "enter":
		ch := state.Chapters[m.cursor]
		if ch.Locked {
			return m, nil
		}
		m.loading = true
		m.errMsg = ""
		return m, m.enterChapter(ch.ID)
	}
	return m, nil
}

// enterChapter fetches the reading guide off the UI goroutine. Cached
// chapters come back immediately.
func (m *MapScreen) enterChapter(id int) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		guide, err := orch.EnterChapter(context.Background(), id)
		if err != nil {
			return hubFailedMsg{err: err}
		}
		return hubReadyMsg{chapterID: id, guide: guide}
	}
}

func (m *MapScreen) View(width, height int) string {
	state, ok := m.orch.State()
	if !ok {
		return ""
	}

	if m.loading {
		_, stage := m.orch.Busy()
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Title.Render(stage))
	}

	var b strings.Builder

	completed := 0
	for _, ch := range state.Chapters {
		if ch.Completed {
			completed++
		}
	}
	b.WriteString(components.NewProgressBar(
		fmt.Sprintf("%d / %d chapters", completed, len(state.Chapters)),
		float64(completed)/float64(len(state.Chapters)),
		false, 44).View() + "\n\n")

	for i, ch := range state.Chapters {
		marker := "○"
		style := theme.Unselected
		switch {
		case ch.Completed:
			marker = "●"
			style = theme.Correct
		case ch.Locked:
			marker = "🔒"
			style = theme.LockedItem
		}

		line := fmt.Sprintf("%s  %d. %s", marker, ch.ID, ch.Title)
		if i == m.cursor && !ch.Locked {
			line = "▸ " + line
			style = theme.Selected
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line) + "\n")

		if i == m.cursor {
			desc := lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Width(width - 12).
				Render("      " + ch.Description)
			b.WriteString(desc + "\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Render(m.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
