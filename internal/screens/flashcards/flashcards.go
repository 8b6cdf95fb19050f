package flashcards

import (
	"context"
	"fmt"

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

// FlashcardScreen walks through one generated card set.
type FlashcardScreen struct {
	orch  *engine.Orchestrator
	cards []course.Flashcard

	index    int
	card     components.FlipCard
	finished bool
	xpBefore int
	xpAfter  int
	errMsg   string
}

var _ screen.Screen = (*FlashcardScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardScreen)(nil)

const cardWidth = 48

// New creates a flashcard screen from a launched run.
func New(orch *engine.Orchestrator, run *engine.ActivityRun) *FlashcardScreen {
	content := run.Content.(course.FlashcardActivity)
	f := &FlashcardScreen{
		orch:  orch,
		cards: content.Cards,
	}
	if state, ok := orch.State(); ok {
		f.xpBefore = state.XP
	}
	f.card = components.NewFlipCard(content.Cards[0].Front, content.Cards[0].Back, cardWidth)
	return f
}

func (f *FlashcardScreen) Title() string {
	return f.orch.Locale().T().Flashcards
}

func (f *FlashcardScreen) Init() tea.Cmd {
	return nil
}

func (f *FlashcardScreen) KeyHints() []layout.KeyHint {
	if f.finished {
		return []layout.KeyHint{{Key: "Enter", Description: "Back to chapter"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Flip"},
		{Key: "→", Description: "Next card"},
		{Key: "Esc", Description: "Give up"},
	}
}

func (f *FlashcardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case completedMsg:
		if msg.err != nil {
			f.errMsg = msg.err.Error()
			return f, nil
		}
		f.finished = true
		f.xpAfter = msg.state.XP
		return f, nil

	case tea.KeyMsg:
		return f.handleKey(msg)
	}
	return f, nil
}

func (f *FlashcardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if f.finished {
		if msg.String() == "enter" || msg.String() == "esc" {
			return f, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return f, nil
	}

	switch msg.String() {
	case "esc":
		_ = f.orch.AbandonActivity()
		return f, func() tea.Msg { return router.PopScreenMsg{} }
	case "right", "l", "n":
		f.index++
		if f.index < len(f.cards) {
			f.card = components.NewFlipCard(f.cards[f.index].Front, f.cards[f.index].Back, cardWidth)
			return f, nil
		}
		return f, f.complete()
	}

	var cmd tea.Cmd
	f.card, cmd = f.card.Update(msg)
	return f, cmd
}

// Reviewing the whole set earns a flat award.
func (f *FlashcardScreen) complete() tea.Cmd {
	orch := f.orch
	return func() tea.Msg {
		state, err := orch.CompleteActivity(context.Background(), course.ActivityFlashcards, 0)
		return completedMsg{state: state, err: err}
	}
}

func (f *FlashcardScreen) View(width, height int) string {
	if f.finished {
		earned := f.xpAfter - f.xpBefore
		content := theme.Title.Render("All cards reviewed") +
			"\n\n" +
			theme.Correct.Render(fmt.Sprintf("+%d XP", earned))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}

	counter := theme.Subtitle.Render(fmt.Sprintf("Card %d of %d", f.index+1, len(f.cards)))
	hint := theme.Hint.Render("enter to flip")
	if f.card.Flipped {
		hint = theme.Hint.Render("→ for the next card")
	}

	content := counter + "\n\n" + f.card.View() + "\n\n" + hint
	if f.errMsg != "" {
		content += "\n" + theme.Incorrect.Render(f.errMsg)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
