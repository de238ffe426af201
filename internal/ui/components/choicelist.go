package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// ChoiceList is a numbered single-selection list. It only tracks the
// cursor and the reveal state; the caller decides what a pick means.
type ChoiceList struct {
	Options []string
	Cursor  int

	// Chosen and Correct are -1 until revealed.
	Chosen  int
	Correct int
	Locked  bool
}

// NewChoiceList creates a list with the cursor on the first option.
func NewChoiceList(options []string) ChoiceList {
	return ChoiceList{
		Options: options,
		Chosen:  -1,
		Correct: -1,
	}
}

// Update moves the cursor. It returns the index of the option the user
// picked with enter or a number key, or -1.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || c.Locked || len(c.Options) == 0 {
		return c, -1
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter":
		return c, c.Cursor
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(c.Options) {
			c.Cursor = n - 1
			return c, c.Cursor
		}
	}
	return c, -1
}

// Reveal locks the list and marks the chosen and correct options.
func (c *ChoiceList) Reveal(chosen, correct int) {
	c.Locked = true
	c.Chosen = chosen
	c.Correct = correct
}

// View renders the options, one per line.
func (c ChoiceList) View() string {
	lines := make([]string, 0, len(c.Options))
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case c.Locked && i == c.Correct:
			style = theme.Correct
		case c.Locked && i == c.Chosen:
			style = theme.Incorrect
		case c.Locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}
