package studyguide

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/router"
	"github.com/anay/litquest/internal/screen"
	"github.com/anay/litquest/internal/ui/layout"
	"github.com/anay/litquest/internal/ui/theme"
)

// GuideScreen shows the book-level study guide: summary, characters
// and themes. It is generated once with the course and never changes.
type GuideScreen struct {
	orch   *engine.Orchestrator
	lines  []string
	scroll int
}

var _ screen.Screen = (*GuideScreen)(nil)
var _ screen.KeyHintProvider = (*GuideScreen)(nil)

// New creates the study guide screen from the active course.
func New(orch *engine.Orchestrator) *GuideScreen {
	g := &GuideScreen{orch: orch}
	g.lines = g.buildLines()
	return g
}

func (g *GuideScreen) buildLines() []string {
	state, ok := g.orch.State()
	if !ok || state.StudyGuide == nil {
		return nil
	}
	guide := state.StudyGuide

	var lines []string
	lines = append(lines, strings.Split(guide.GlobalSummary, "\n")...)
	lines = append(lines, "", theme.Title.Render("Characters"), "")
	for _, c := range guide.Characters {
		lines = append(lines,
			theme.Selected.Render(c.Name)+theme.Hint.Render("  "+c.Role),
			"  "+c.Description,
			"")
	}
	lines = append(lines, theme.Title.Render("Themes"), "")
	for _, t := range guide.Themes {
		lines = append(lines,
			theme.Selected.Render(t.Name),
			"  "+t.Description,
			"")
	}
	return lines
}

func (g *GuideScreen) Title() string {
	return g.orch.Locale().T().StudyGuide
}

func (g *GuideScreen) Init() tea.Cmd {
	return nil
}

func (g *GuideScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Close"},
	}
}

func (g *GuideScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if g.scroll > 0 {
				g.scroll--
			}
		case "down", "j":
			if g.scroll < len(g.lines)-1 {
				g.scroll++
			}
		case "esc", "g":
			// the overlay closes without touching hub/activity position
			_ = g.orch.ToggleStudyGuide()
			return g, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return g, nil
}

func (g *GuideScreen) View(width, height int) string {
	if len(g.lines) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No study guide available"))
	}

	bodyHeight := height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	end := g.scroll + bodyHeight
	if end > len(g.lines) {
		end = len(g.lines)
	}

	body := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(width - 8).
		Render(strings.Join(g.lines[g.scroll:end], "\n"))

	return lipgloss.NewStyle().Padding(1, 4).Render(body)
}
