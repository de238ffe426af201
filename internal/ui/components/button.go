package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// Button is a styled, fixed-width button.
type Button struct {
	Label  string
	Active bool
	Width  int
}

// NewButton creates a new button.
func NewButton(label string, active bool, width int) Button {
	return Button{
		Label:  label,
		Active: active,
		Width:  width,
	}
}

// View renders the button.
func (b Button) View() string {
	style := theme.ButtonInactive
	label := b.Label
	if b.Active {
		style = theme.ButtonActive.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary)
		label = "▸ " + label
	}
	if b.Width > 0 {
		style = style.Width(b.Width).Align(lipgloss.Center)
	}
	return style.Render(label)
}

// ButtonRow renders labels side by side with the selected one active.
func ButtonRow(labels []string, selected, width int) string {
	buttons := make([]string, 0, len(labels)*2)
	for i, label := range labels {
		if i > 0 {
			buttons = append(buttons, strings.Repeat(" ", 2))
		}
		buttons = append(buttons, NewButton(label, i == selected, width).View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
}
