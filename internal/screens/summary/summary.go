package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/quiz"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/layout"
	"github.com/abhisek/parley/internal/ui/theme"
)

var buttonLabels = []string{"Play again", "Back to topics"}

const buttonWidth = 18

// SummaryScreen displays the result of a finished quiz.
type SummaryScreen struct {
	summary  quiz.Summary
	replay   func() screen.Screen
	selected int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. replay builds a fresh quiz screen for
// the same topic; nil disables replay.
func New(summary quiz.Summary, replay func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, replay: replay}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) Status() string {
	return fmt.Sprintf("★ %d/%d", s.summary.Score, s.summary.Total)
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←/→", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "r", Description: "Play again"},
		{Key: "Esc", Description: "Topics"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h":
		s.selected = 0
	case "right", "l", "tab":
		s.selected = 1
	case "r":
		return s, s.playAgain()
	case "esc":
		return s, back()
	case "enter":
		if s.selected == 0 {
			return s, s.playAgain()
		}
		return s, back()
	}
	return s, nil
}

func (s *SummaryScreen) playAgain() tea.Cmd {
	if s.replay == nil {
		return nil
	}
	next := s.replay()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func back() tea.Cmd {
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(center(theme.Title.Render(headline(sum))))
	b.WriteString("\n")
	b.WriteString(center(theme.Subtitle.Render(sum.TopicName)))
	b.WriteString("\n\n")

	score := fmt.Sprintf("Score: %d / %d    %d%%", sum.Score, sum.Total, sum.Percent())
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(score)))
	b.WriteString("\n")
	b.WriteString(center(components.NewProgressBar("", float64(sum.Percent())/100, false, min(cw, 40)).View()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(cw, 60)))
	b.WriteString(center(theme.Hint.Render("Levels")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")

	var rows []string
	for i, o := range sum.Outcomes {
		mark := theme.Correct.Render("✓")
		if !o.Success {
			mark = theme.Incorrect.Render("✗")
		}
		rows = append(rows, fmt.Sprintf("%s  %2d. %-18s %s", mark, i+1, o.Type.DisplayName(),
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(o.LevelID)))
	}
	b.WriteString(center(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n\n")

	if tallies := renderTallies(sum); tallies != "" {
		b.WriteString(center(tallies))
		b.WriteString("\n\n")
	}

	b.WriteString(center(components.ButtonRow(buttonLabels, s.selected, buttonWidth)))

	return lipgloss.PlaceVertical(height, lipgloss.Center, b.String())
}

func headline(sum quiz.Summary) string {
	switch {
	case sum.Perfect():
		return "Perfect round!"
	case sum.Percent() >= 50:
		return "Nice work!"
	default:
		return "Keep practicing!"
	}
}

// renderTallies lists solved/attempted per level type in catalog order.
func renderTallies(sum quiz.Summary) string {
	byType := sum.ByType()
	var parts []string
	for _, lt := range content.LevelTypes {
		t, ok := byType[lt]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d/%d", lt.DisplayName(), t.Solved, t.Attempted))
	}
	return theme.Hint.Render(strings.Join(parts, " · "))
}
