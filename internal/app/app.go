package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/catalog"
	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/screens/chat"
	"github.com/abhisek/parley/internal/screens/home"
	"github.com/abhisek/parley/internal/screens/quiz"
	"github.com/abhisek/parley/internal/screens/welcome"
	"github.com/abhisek/parley/internal/speech"
	"github.com/abhisek/parley/internal/ui/layout"
)

// Deps are the collaborators the screens are built from.
type Deps struct {
	Catalog *catalog.Catalog
	Config  config.Config
	Logger  *slog.Logger
	Speaker speech.Speaker
}

// launcher opens scenario and topic screens with the app's settings.
type launcher struct {
	deps Deps
}

var _ home.Launcher = launcher{}

func (l launcher) Scenario(sc *content.Scenario) screen.Screen {
	return chat.New(sc, chat.Options{
		Timings: l.deps.Config.Dialogue,
		Logger:  l.deps.Logger.With("scenario", sc.ID),
	})
}

func (l launcher) Topic(t *content.Topic) screen.Screen {
	return quiz.New(t, quiz.Options{
		Timings: l.deps.Config.Levels,
		Speaker: l.deps.Speaker,
		Logger:  l.deps.Logger.With("topic", t.ID),
	})
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	start  screen.Screen // opened over home by Init
	width  int
	height int
}

// newAppModel creates the root model. With an empty startID the app opens
// on the welcome splash; otherwise the named scenario or topic is opened
// directly on top of the home screen.
func newAppModel(deps Deps, startID string) (AppModel, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Speaker == nil {
		deps.Speaker = speech.Nop{}
	}
	l := launcher{deps: deps}
	homeScreen := func() screen.Screen { return home.New(deps.Catalog, l) }

	if startID == "" {
		return AppModel{router: router.New(welcome.New(homeScreen))}, nil
	}

	var start screen.Screen
	if sc, ok := deps.Catalog.Scenario(startID); ok {
		start = l.Scenario(sc)
	} else if t, ok := deps.Catalog.Topic(startID); ok {
		start = l.Topic(t)
	} else {
		return AppModel{}, fmt.Errorf("no scenario or topic with id %q", startID)
	}
	return AppModel{router: router.New(homeScreen()), start: start}, nil
}

func (m AppModel) Init() tea.Cmd {
	if m.start != nil {
		start := m.start
		return func() tea.Msg { return router.PushScreenMsg{Screen: start} }
	}
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program. startID optionally names a scenario
// or topic to open immediately.
func Run(deps Deps, startID string) error {
	model, err := newAppModel(deps, startID)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model)
	final, err := p.Run()
	if m, ok := final.(AppModel); ok {
		m.router.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
