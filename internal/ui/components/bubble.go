package components

import (
	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/abhisek/parley/internal/ui/theme"
)

// BubbleSide is the edge of the transcript a bubble hangs from.
type BubbleSide int

const (
	BubbleLeft BubbleSide = iota
	BubbleRight
)

// Bubble renders text as a chat bubble aligned within width. Bubbles
// take at most three quarters of the width.
func Bubble(text string, side BubbleSide, style lipgloss.Style, width int) string {
	limit := width * 3 / 4
	if limit < 10 {
		limit = 10
	}
	// Padding eats two columns.
	body := style.Render(wordwrap.String(text, limit-2))

	align := lipgloss.Left
	if side == BubbleRight {
		align = lipgloss.Right
	}
	return lipgloss.NewStyle().Width(width).Align(align).Render(body)
}

// BotBubble renders a partner message.
func BotBubble(text string, width int) string {
	return Bubble(text, BubbleLeft, theme.BotBubble, width)
}

// UserBubble renders a learner message.
func UserBubble(text string, width int) string {
	return Bubble(text, BubbleRight, theme.UserBubble, width)
}

// FeedbackBubble renders a partner correction.
func FeedbackBubble(text string, width int) string {
	return Bubble(text, BubbleLeft, theme.FeedbackBubble, width)
}
