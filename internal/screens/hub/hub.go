package hub

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/locale"
	"github.com/anay/litquest/internal/router"
	"github.com/anay/litquest/internal/screen"
	"github.com/anay/litquest/internal/ui/components"
	"github.com/anay/litquest/internal/ui/layout"
	"github.com/anay/litquest/internal/ui/theme"
)

type activityReadyMsg struct{ run *engine.ActivityRun }
type activityFailedMsg struct{ err error }

// ActivityFactory builds the screen for a launched activity run.
type ActivityFactory func(run *engine.ActivityRun) screen.Screen

// HubScreen is one chapter's hub: the reading guide plus its activity
// menu.
type HubScreen struct {
	orch           *engine.Orchestrator
	activityScreen ActivityFactory

	chapterID int
	guide     *course.ChapterGuide

	guideLines []string
	scroll     int
	cursor     int
	loading    bool
	errMsg     string
}

var _ screen.Screen = (*HubScreen)(nil)
var _ screen.KeyHintProvider = (*HubScreen)(nil)

// New creates a hub screen for an already-entered chapter.
func New(orch *engine.Orchestrator, chapterID int, guide *course.ChapterGuide, activityScreen ActivityFactory) *HubScreen {
	return &HubScreen{
		orch:           orch,
		activityScreen: activityScreen,
		chapterID:      chapterID,
		guide:          guide,
		guideLines:     strings.Split(guide.Content, "\n"),
	}
}

func (h *HubScreen) Title() string {
	return h.guide.ChapterTitle
}

func (h *HubScreen) Init() tea.Cmd {
	return nil
}

func (h *HubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "←→", Description: "Activity"},
		{Key: "Enter", Description: "Launch"},
		{Key: "Esc", Description: "Map"},
	}
}

func (h *HubScreen) chapter() (course.Chapter, bool) {
	state, ok := h.orch.State()
	if !ok {
		return course.Chapter{}, false
	}
	for _, ch := range state.Chapters {
		if ch.ID == h.chapterID {
			return ch, true
		}
	}
	return course.Chapter{}, false
}

func (h *HubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case activityReadyMsg:
		h.loading = false
		next := h.activityScreen(msg.run)
		return h, func() tea.Msg {
			return router.PushScreenMsg{Screen: next}
		}

	case activityFailedMsg:
		h.loading = false
		h.errMsg = msg.err.Error()
		return h, nil

	case tea.KeyMsg:
		if h.loading {
			return h, nil
		}
		return h.handleKey(msg)
	}
	return h, nil
}

func (h *HubScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	ch, ok := h.chapter()
	if !ok {
		return h, nil
	}

	switch msg.String() {
	case "up", "k":
		if h.scroll > 0 {
			h.scroll--
		}
	case "down", "j":
		if h.scroll < len(h.guideLines)-1 {
			h.scroll++
		}
	case "left":
		if h.cursor > 0 {
			h.cursor--
		}
	case "right":
		if h.cursor < len(ch.Activities)-1 {
			h.cursor++
		}
	case "esc":
		if err := h.orch.CloseHub(); err == nil {
			return h, func() tea.Msg { return router.PopScreenMsg{} }
		}
	case "enter":
		if len(ch.Activities) == 0 {
			return h, nil
		}
		kind := ch.Activities[h.cursor]
		h.loading = true
		h.errMsg = ""
		return h, h.launch(kind)
	}
	return h, nil
}

// launch generates activity content off the UI goroutine. Roleplay
// opens without generation.
func (h *HubScreen) launch(kind course.ActivityKind) tea.Cmd {
	orch := h.orch
	return func() tea.Msg {
		run, err := orch.LaunchActivity(context.Background(), kind)
		if err != nil {
			return activityFailedMsg{err: err}
		}
		return activityReadyMsg{run: run}
	}
}

func activityLabel(kind course.ActivityKind, loc locale.Locale) string {
	switch kind {
	case course.ActivityQuiz:
		return loc.T().Quiz
	case course.ActivityFlashcards:
		return loc.T().Flashcards
	case course.ActivityRoleplay:
		return loc.T().Roleplay
	}
	return string(kind)
}

func (h *HubScreen) View(width, height int) string {
	if h.loading {
		_, stage := h.orch.Busy()
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Title.Render(stage))
	}

	ch, ok := h.chapter()
	if !ok {
		return ""
	}
	loc := h.orch.Locale()

	// activity tabs along the top
	var tabs []string
	for i, kind := range ch.Activities {
		btn := components.NewButton(activityLabel(kind, loc), i == h.cursor, nil)
		tabs = append(tabs, btn.View())
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Center, tabs...)

	// guide body below, scrolled
	bodyHeight := height - lipgloss.Height(tabRow) - 4
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	end := h.scroll + bodyHeight
	if end > len(h.guideLines) {
		end = len(h.guideLines)
	}
	body := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(width - 8).
		Render(strings.Join(h.guideLines[h.scroll:end], "\n"))

	var keyPoints string
	if len(h.guide.KeyPoints) > 0 && h.scroll == 0 {
		var pts []string
		for _, p := range h.guide.KeyPoints {
			pts = append(pts, "• "+p)
		}
		keyPoints = theme.Hint.Render(strings.Join(pts, "\n")) + "\n\n"
	}

	var errLine string
	if h.errMsg != "" {
		errLine = "\n" + theme.Incorrect.Render(h.errMsg)
	}

	content := tabRow + "\n\n" + keyPoints + body + errLine
	return lipgloss.NewStyle().Padding(1, 4).Render(content)
}
