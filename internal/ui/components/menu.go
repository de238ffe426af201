package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu. Section items
// are headings and are never selectable.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
	Section  bool
}

func (i MenuItem) selectable() bool {
	return !i.Disabled && !i.Section
}

// Menu is a vertical navigation menu. When Height is positive the view
// scrolls to keep the selection visible.
type Menu struct {
	Items    []MenuItem
	Selected int
	Height   int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := -1
	for i, item := range items {
		if item.selectable() {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if m.Items[i].selectable() {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if m.Items[i].selectable() {
				m.Selected = i
				break
			}
		}
	case "enter":
		if item, ok := m.Current(); ok && item.Action != nil {
			return m, item.Action()
		}
	}

	return m, nil
}

// Current returns the selected item.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) || !m.Items[m.Selected].selectable() {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// View renders the menu.
func (m Menu) View() string {
	lines := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		lines = append(lines, m.renderItem(i, item))
	}

	if m.Height > 0 && len(lines) > m.Height {
		start := max(0, m.Selected-m.Height/2)
		start = min(start, len(lines)-m.Height)
		lines = lines[start : start+m.Height]
	}
	return strings.Join(lines, "\n")
}

func (m Menu) renderItem(i int, item MenuItem) string {
	detail := ""
	if item.Detail != "" {
		detail = "  " + theme.Hint.Render(item.Detail)
	}

	switch {
	case item.Section:
		return theme.Section.Render(item.Label)
	case item.Disabled:
		return theme.Disabled.Render("    "+item.Label) + detail
	case i == m.Selected:
		return lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Render("  ▸ "+item.Label) + detail
	default:
		return lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("    "+item.Label) + detail
	}
}
