package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a list filter. It starts
// blurred; Focus opens it.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates a blurred filter input.
func NewFilterInput(placeholder string, maxWidth int) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return FilterInput{Model: ti}
}

// Focus opens the input for typing.
func (f *FilterInput) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur stops capturing keys but keeps the query.
func (f *FilterInput) Blur() {
	f.Model.Blur()
}

// Reset clears the query and blurs the input.
func (f *FilterInput) Reset() {
	f.Model.SetValue("")
	f.Model.Blur()
}

// Focused reports whether the input captures keys.
func (f FilterInput) Focused() bool {
	return f.Model.Focused()
}

// Update handles messages.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the input, or nothing when blurred with an empty query.
func (f FilterInput) View() string {
	if !f.Focused() && f.Query() == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render(f.Model.View())
}

// Query returns the trimmed, lower-cased filter text.
func (f FilterInput) Query() string {
	return strings.ToLower(strings.TrimSpace(f.Model.Value()))
}

// Matches reports whether any of the fields contain the query.
func (f FilterInput) Matches(fields ...string) bool {
	q := f.Query()
	if q == "" {
		return true
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
