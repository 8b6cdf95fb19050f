package landing

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/ingest"
	"github.com/anay/litquest/internal/router"
	"github.com/anay/litquest/internal/screen"
	"github.com/anay/litquest/internal/ui/components"
	"github.com/anay/litquest/internal/ui/layout"
	"github.com/anay/litquest/internal/ui/theme"
)

const bookArt = `   ______ ______
  /      Y      \
 /       |       \
|        |        |
|        |        |
|________|________|
 \_______|_______/`

// inputMode selects what the text field means.
type inputMode int

const (
	modeTitle inputMode = iota
	modeFile
)

// LandingScreen collects the book a course will be built from: a typed
// title, or a path to a plain-text copy of the book.
type LandingScreen struct {
	orch        *engine.Orchestrator
	prefsScreen func() screen.Screen

	mode   inputMode
	input  components.TextInput
	errMsg string
}

var _ screen.Screen = (*LandingScreen)(nil)
var _ screen.KeyHintProvider = (*LandingScreen)(nil)

// New creates the landing screen. prefsScreen builds the follow-up
// preferences screen once a draft is set.
func New(orch *engine.Orchestrator, prefsScreen func() screen.Screen) *LandingScreen {
	return &LandingScreen{
		orch:        orch,
		prefsScreen: prefsScreen,
		input:       components.NewTextInput("Enter a book title...", 120),
	}
}

func (l *LandingScreen) Title() string {
	return "New Quest"
}

func (l *LandingScreen) Init() tea.Cmd {
	return l.input.Init()
}

func (l *LandingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Tab", Description: "Title/File"},
		{Key: "Ctrl+L", Description: "Language"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab":
			l.toggleMode()
			return l, nil
		case "ctrl+l":
			_, _ = l.orch.ToggleLocale()
			return l, nil
		case "enter":
			return l.submit()
		}
	}

	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

func (l *LandingScreen) toggleMode() {
	if l.mode == modeTitle {
		l.mode = modeFile
		l.input = components.NewTextInput("Path to a .txt copy of the book...", 200)
	} else {
		l.mode = modeTitle
		l.input = components.NewTextInput("Enter a book title...", 120)
	}
	l.errMsg = ""
}

func (l *LandingScreen) submit() (screen.Screen, tea.Cmd) {
	value := strings.TrimSpace(l.input.Value())
	if value == "" {
		return l, nil
	}

	var src ingest.Source
	var err error
	if l.mode == modeFile {
		src, err = ingest.FromFile(value)
	} else {
		src, err = ingest.FromTitle(value)
	}
	if err == nil {
		err = l.orch.SetDraft(src)
	}
	if err != nil {
		l.errMsg = err.Error()
		return l, nil
	}

	next := l.prefsScreen()
	return l, func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (l *LandingScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(bookArt),
		"",
		theme.Title.Render("LitQuest"),
		theme.Subtitle.Render("Turn any book into a quest"),
		"",
	)

	modeLabel := "Book title"
	if l.mode == modeFile {
		modeLabel = "Book file"
	}
	sections = append(sections,
		theme.Hint.Render(modeLabel),
		l.input.View(),
	)

	loc := l.orch.Locale()
	sections = append(sections, "",
		theme.Hint.Render("Language: "+string(loc)))

	if l.errMsg != "" {
		sections = append(sections, "", theme.Incorrect.Render(l.errMsg))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
