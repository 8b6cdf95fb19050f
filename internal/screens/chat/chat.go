package chat

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/roleplay"
	"github.com/anay/litquest/internal/router"
	"github.com/anay/litquest/internal/screen"
	"github.com/anay/litquest/internal/ui/components"
	"github.com/anay/litquest/internal/ui/layout"
	"github.com/anay/litquest/internal/ui/theme"
)

type introMsg struct {
	intro roleplay.ChatMessage
	err   error
}
type replyMsg struct {
	user  string
	reply roleplay.ChatMessage
	err   error
}
type completedMsg struct {
	state engine.CourseState
	err   error
}

// ChatScreen hosts a roleplay conversation with a book character. The
// session is only touched from command goroutines; the screen renders
// its own copy of the transcript, appended to as messages arrive.
type ChatScreen struct {
	orch    *engine.Orchestrator
	session *roleplay.Session

	input      components.TextInput
	transcript []roleplay.ChatMessage
	pending    string
	waiting    bool
	finished   bool
	xpBefore   int
	xpAfter    int
	errMsg     string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a chat screen from a launched roleplay run.
func New(orch *engine.Orchestrator, run *engine.ActivityRun) *ChatScreen {
	c := &ChatScreen{
		orch:    orch,
		session: run.Chat,
		input:   components.NewTextInput("Say something...", 400),
		waiting: true,
	}
	if state, ok := orch.State(); ok {
		c.xpBefore = state.XP
	}
	return c
}

func (c *ChatScreen) Title() string {
	return c.orch.Locale().T().Roleplay
}

// Init asks the character to introduce itself.
func (c *ChatScreen) Init() tea.Cmd {
	session := c.session
	return tea.Batch(
		c.input.Init(),
		func() tea.Msg {
			intro, err := session.Start(context.Background())
			return introMsg{intro: intro, err: err}
		},
	)
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	if c.finished {
		return []layout.KeyHint{{Key: "Enter", Description: "Back to chapter"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+D", Description: "Finish chat"},
		{Key: "Esc", Description: "Give up"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case introMsg:
		c.waiting = false
		if msg.err != nil {
			c.errMsg = c.orch.Locale().T().ChatFallback
			return c, nil
		}
		c.transcript = append(c.transcript, msg.intro)
		return c, nil

	case replyMsg:
		c.waiting = false
		c.pending = ""
		if msg.err != nil {
			c.errMsg = msg.err.Error()
			return c, nil
		}
		c.transcript = append(c.transcript,
			roleplay.ChatMessage{Role: roleplay.RoleUser, Text: msg.user},
			msg.reply,
		)
		return c, nil

	case completedMsg:
		if msg.err != nil {
			c.errMsg = msg.err.Error()
			return c, nil
		}
		c.finished = true
		c.xpAfter = msg.state.XP
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)
	}

	if !c.waiting && !c.finished {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if c.finished {
		if msg.String() == "enter" || msg.String() == "esc" {
			return c, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return c, nil
	}

	switch msg.String() {
	case "esc":
		_ = c.orch.AbandonActivity()
		return c, func() tea.Msg { return router.PopScreenMsg{} }
	case "ctrl+d":
		return c, c.complete()
	case "enter":
		if c.waiting {
			return c, nil
		}
		text := strings.TrimSpace(c.input.Value())
		if text == "" {
			return c, nil
		}
		c.input.Reset()
		c.pending = text
		c.waiting = true
		c.errMsg = ""
		session := c.session
		return c, func() tea.Msg {
			reply, err := session.Send(context.Background(), text)
			return replyMsg{user: text, reply: reply, err: err}
		}
	}

	if !c.waiting {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

// Finishing a conversation earns a flat award.
func (c *ChatScreen) complete() tea.Cmd {
	orch := c.orch
	return func() tea.Msg {
		state, err := orch.CompleteActivity(context.Background(), course.ActivityRoleplay, 0)
		return completedMsg{state: state, err: err}
	}
}

func (c *ChatScreen) View(width, height int) string {
	if c.finished {
		earned := c.xpAfter - c.xpBefore
		content := theme.Title.Render("Conversation complete") +
			"\n\n" +
			theme.Correct.Render(fmt.Sprintf("+%d XP", earned))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}

	bubbleWidth := width - 16
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	userStyle := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Padding(0, 1).
		MaxWidth(bubbleWidth)
	modelStyle := lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.BgCard).
		Padding(0, 1).
		MaxWidth(bubbleWidth)
	userLine := lipgloss.NewStyle().
		Width(width - 8).
		Align(lipgloss.Right)

	var lines []string
	for _, m := range c.transcript {
		if m.Role == roleplay.RoleUser {
			lines = append(lines, userLine.Render(userStyle.Render(m.Text)))
		} else {
			lines = append(lines, modelStyle.Render(m.Text))
		}
		lines = append(lines, "")
	}

	if c.pending != "" {
		lines = append(lines, userLine.Render(userStyle.Render(c.pending)), "")
	}
	if c.waiting {
		lines = append(lines, theme.Hint.Render("..."))
	}
	if c.errMsg != "" {
		lines = append(lines, theme.Incorrect.Render(c.errMsg))
	}

	transcript := strings.Join(lines, "\n")

	// keep the tail of the transcript visible above the input
	inputView := c.input.View()
	avail := height - 4
	tlines := strings.Split(transcript, "\n")
	if len(tlines) > avail && avail > 0 {
		tlines = tlines[len(tlines)-avail:]
	}
	transcript = strings.Join(tlines, "\n")

	return lipgloss.NewStyle().Padding(1, 4).Render(transcript + "\n\n" + inputView)
}
