package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/anay/litquest/internal/ui/theme"
)

// FlipCard shows one flashcard face at a time.
type FlipCard struct {
	Front   string
	Back    string
	Flipped bool
	Width   int
}

// NewFlipCard creates a card showing its front face.
func NewFlipCard(front, back string, width int) FlipCard {
	return FlipCard{Front: front, Back: back, Width: width}
}

// Update flips the card on enter or space.
func (c FlipCard) Update(msg tea.Msg) (FlipCard, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", " ":
			c.Flipped = !c.Flipped
		}
	}
	return c, nil
}

// View renders the visible face inside a card frame.
func (c FlipCard) View() string {
	face := c.Front
	edge := theme.Secondary
	if c.Flipped {
		face = c.Back
		edge = theme.Primary
	}

	width := c.Width
	if width < 20 {
		width = 20
	}

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(edge).
		Padding(1, 2).
		Render(face)
}
