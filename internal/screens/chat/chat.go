// Package chat is the scenario conversation screen. It renders the
// dialogue engine's transcript as chat bubbles and forwards the learner's
// replies.
package chat

import (
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/dialogue"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/layout"
	"github.com/abhisek/parley/internal/ui/teaclock"
	"github.com/abhisek/parley/internal/ui/theme"
)

// Options configures a chat screen.
type Options struct {
	Timings dialogue.Timings
	Logger  *slog.Logger
}

// ChatScreen plays one scenario.
type ChatScreen struct {
	scenario *content.Scenario
	clock    *teaclock.Clock
	engine   *dialogue.Engine
	logger   *slog.Logger

	state   dialogue.State
	choices []content.Choice
	list    components.ChoiceList
	spinner spinner.Model
	err     error
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.StatusProvider = (*ChatScreen)(nil)
var _ screen.Closer = (*ChatScreen)(nil)

// New creates a chat screen for sc. The conversation starts in Init.
func New(sc *content.Scenario, opts Options) *ChatScreen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := teaclock.New()
	return &ChatScreen{
		scenario: sc,
		clock:    clk,
		engine:   dialogue.New(clk, dialogue.WithTimings(opts.Timings), dialogue.WithLogger(logger)),
		logger:   logger,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Ellipsis),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.TextDim)),
		),
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return tea.Batch(c.start(), c.spinner.Tick)
}

func (c *ChatScreen) start() tea.Cmd {
	if err := c.engine.Start(c.scenario); err != nil {
		c.logger.Error("cannot start scenario", "error", err)
		c.err = err
		return nil
	}
	c.err = nil
	c.sync()
	return c.clock.Cmd()
}

func (c *ChatScreen) Title() string {
	if c.scenario == nil {
		return "Conversation"
	}
	return c.scenario.Title
}

func (c *ChatScreen) Status() string {
	switch c.state.Phase {
	case dialogue.PhaseGameOver:
		return "✓ Finished"
	case dialogue.PhasePlaying:
		if c.state.IsTyping {
			return "typing…"
		}
		return "Your turn"
	}
	return ""
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	if c.state.Phase == dialogue.PhaseGameOver || c.err != nil {
		return hints(keys.Replay, keys.Back)
	}
	return hints(keys.Move, keys.Pick, keys.Replay, keys.Back)
}

func (c *ChatScreen) Close() {
	c.engine.Close()
	c.clock.StopAll()
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if handled, cmd := c.clock.Handle(msg); handled {
		c.sync()
		return c, cmd
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case tea.KeyPressMsg:
		switch {
		case msg.String() == "esc":
			return c, func() tea.Msg { return router.PopScreenMsg{} }
		case msg.String() == "r":
			return c, c.start()
		}
		if !c.state.ChoicesVisible {
			return c, nil
		}
		var picked int
		c.list, picked = c.list.Update(msg)
		if picked < 0 || picked >= len(c.choices) {
			return c, nil
		}
		if c.engine.SelectChoice(c.choices[picked]) {
			c.sync()
		}
		return c, c.clock.Cmd()
	}

	return c, nil
}

// sync pulls a fresh snapshot and rebuilds the choice list whenever the
// choices reappear.
func (c *ChatScreen) sync() {
	wasVisible := c.state.ChoicesVisible
	c.state = c.engine.State()
	if c.state.ChoicesVisible && !wasVisible {
		c.choices = c.engine.CurrentChoices()
		labels := make([]string, len(c.choices))
		for i, ch := range c.choices {
			labels[i] = ch.Text
		}
		c.list = components.NewChoiceList(labels)
	}
}

func (c *ChatScreen) View(width, height int) string {
	if c.err != nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render("This conversation cannot start.")+"\n\n"+
				theme.Hint.Render(c.err.Error()))
	}

	cw := min(width-4, 80)
	bottom := c.renderBottom(cw)
	transcriptHeight := max(0, height-lipgloss.Height(bottom)-1)
	transcript := c.renderTranscript(cw, transcriptHeight)

	body := transcript + "\n" + bottom
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// renderTranscript renders the newest messages that fit in height.
func (c *ChatScreen) renderTranscript(width, height int) string {
	var blocks []string
	for _, m := range c.state.Messages {
		switch {
		case m.Sender == dialogue.SenderUser:
			blocks = append(blocks, components.UserBubble(m.Text, width))
		case m.IsErrorFeedback:
			blocks = append(blocks, components.FeedbackBubble(m.Text, width))
		default:
			blocks = append(blocks, components.BotBubble(m.Text, width))
		}
	}
	if c.state.IsTyping {
		blocks = append(blocks, components.BotBubble(c.spinner.View(), width))
	}

	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append([]string{""}, lines...)
	}
	return strings.Join(lines, "\n")
}

func (c *ChatScreen) renderBottom(width int) string {
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width))

	switch {
	case c.state.Phase == dialogue.PhaseGameOver:
		done := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(theme.Correct.Render("Conversation complete!") + "\n" +
				theme.Hint.Render(fmt.Sprintf("%d messages exchanged", len(c.state.Messages))))
		return divider + "\n" + done
	case c.state.ChoicesVisible:
		return divider + "\n" + c.list.View()
	default:
		return divider + "\n" + theme.Hint.Render("Waiting for reply…")
	}
}
