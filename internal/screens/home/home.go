package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/catalog"
	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/layout"
	"github.com/abhisek/parley/internal/ui/theme"
)

const titleCompact = "P · A · R · L · E · Y"

// Launcher builds the screens the home browser opens.
type Launcher interface {
	Scenario(sc *content.Scenario) screen.Screen
	Topic(t *content.Topic) screen.Screen
}

// entry is what a menu row points at. Exactly one field is set.
type entry struct {
	scenario *content.Scenario
	topic    *content.Topic
}

// HomeScreen browses the catalog: conversations first, then quiz topics
// grouped by category.
type HomeScreen struct {
	catalog *catalog.Catalog
	launch  Launcher
	filter  components.FilterInput
	menu    components.Menu
	entries []entry // parallel to menu.Items
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(cat *catalog.Catalog, launch Launcher) *HomeScreen {
	h := &HomeScreen{
		catalog: cat,
		launch:  launch,
		filter:  components.NewFilterInput("filter topics", 32),
	}
	h.rebuild()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Status() string {
	return fmt.Sprintf("%d chats · %d topics", len(h.catalog.Scenarios()), len(h.catalog.Topics()))
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Move"},
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if h.filter.Focused() {
			var cmd tea.Cmd
			h.filter, cmd = h.filter.Update(msg)
			return h, cmd
		}
		return h, nil
	}

	if h.filter.Focused() {
		switch kmsg.String() {
		case "enter", "up", "down":
			h.filter.Blur()
		case "esc":
			h.filter.Reset()
			h.rebuild()
		default:
			var cmd tea.Cmd
			h.filter, cmd = h.filter.Update(msg)
			h.rebuild()
			return h, cmd
		}
		return h, nil
	}

	switch kmsg.String() {
	case "/":
		return h, h.filter.Focus()
	case "q":
		return h, tea.Quit
	case "esc":
		if h.filter.Query() != "" {
			h.filter.Reset()
			h.rebuild()
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// rebuild regenerates the menu from the catalog and the filter, keeping
// the selection on the same entry when it is still listed.
func (h *HomeScreen) rebuild() {
	var prev entry
	if h.menu.Selected >= 0 && h.menu.Selected < len(h.entries) {
		prev = h.entries[h.menu.Selected]
	}

	var items []components.MenuItem
	var entries []entry
	add := func(item components.MenuItem, e entry) {
		items = append(items, item)
		entries = append(entries, e)
	}

	var scenarios []components.MenuItem
	var scenarioEntries []entry
	for _, sc := range h.catalog.Scenarios() {
		if !h.filter.Matches(sc.Title, sc.Subtitle, sc.Description) {
			continue
		}
		scenarios = append(scenarios, components.MenuItem{
			Label:  label(sc.Icon, sc.Title),
			Detail: sc.Subtitle,
			Action: func() tea.Cmd { return h.push(h.launch.Scenario(sc)) },
		})
		scenarioEntries = append(scenarioEntries, entry{scenario: sc})
	}
	if len(scenarios) > 0 {
		add(components.MenuItem{Label: "Conversations", Section: true}, entry{})
		for i := range scenarios {
			add(scenarios[i], scenarioEntries[i])
		}
	}

	for _, cat := range h.catalog.Categories() {
		var topics []*content.Topic
		for _, t := range cat.Topics {
			if h.filter.Matches(t.Name, t.Description, cat.Name) {
				topics = append(topics, t)
			}
		}
		if len(topics) == 0 {
			continue
		}
		add(components.MenuItem{Label: cat.Name, Section: true}, entry{})
		for _, t := range topics {
			add(components.MenuItem{
				Label:  label(t.Icon, t.Name),
				Detail: fmt.Sprintf("%d levels", len(t.Levels)),
				Action: func() tea.Cmd { return h.push(h.launch.Topic(t)) },
			}, entry{topic: t})
		}
	}

	h.menu = components.NewMenu(items)
	h.entries = entries
	for i, e := range entries {
		if e != (entry{}) && e == prev {
			h.menu.Selected = i
			break
		}
	}
}

func (h *HomeScreen) push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// icons maps catalog icon names to glyphs.
var icons = map[string]string{
	"coffee":   "☕",
	"plane":    "✈",
	"general":  "🍚",
	"drinks":   "🥤",
	"vehicles": "🚗",
	"travel":   "🧳",
	"greeting": "👋",
	"phrases":  "💬",
	"sino":     "🔢",
	"native":   "🔢",
	"money":    "💰",
}

func label(icon, name string) string {
	glyph, ok := icons[icon]
	if !ok {
		glyph = "•"
	}
	return glyph + " " + name
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(titleCompact)
	subtitle := theme.Subtitle.Render("Pick a conversation or a quiz topic")

	sections := []string{title, subtitle, ""}
	if f := h.filter.View(); f != "" {
		sections = append(sections, f, "")
	}

	// Leave room for the title block, the description and the frame.
	h.menu.Height = max(3, height-len(sections)-8)
	list := h.menu.View()
	if len(h.menu.Items) == 0 {
		list = theme.Hint.Render("Nothing matches " + fmt.Sprintf("%q", h.filter.Query()))
	}
	sections = append(sections,
		lipgloss.NewStyle().Width(cw).Render(list),
		"",
		lipgloss.NewStyle().Width(cw).Render(h.describeSelected()),
	)

	return components.CabinetFrame(strings.Join(sections, "\n"), width, height)
}

func (h *HomeScreen) describeSelected() string {
	if h.menu.Selected < 0 || h.menu.Selected >= len(h.entries) {
		return ""
	}
	e := h.entries[h.menu.Selected]
	switch {
	case e.scenario != nil:
		return theme.Hint.Render(e.scenario.Description)
	case e.topic != nil:
		return theme.Hint.Render(e.topic.Description)
	}
	return ""
}
