package quiz

import (
	"fmt"
	"path"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/levels"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/theme"
)

func (q *QuizScreen) View(width, height int) string {
	if q.err != nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render("This topic cannot start.")+"\n\n"+theme.Hint.Render(q.err.Error()))
	}
	if q.validator == nil {
		return ""
	}

	cw := components.ContentWidth(width)
	sections := []string{
		q.renderProgress(cw),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).Align(lipgloss.Center).
			Render(q.validator.Level().Prompt()),
		"",
		q.renderLevel(cw),
	}
	if fb := q.renderFeedback(); fb != "" {
		sections = append(sections, "", fb)
	}

	body := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (q *QuizScreen) renderProgress(cw int) string {
	total := len(q.topic.Levels)
	label := fmt.Sprintf("Level %d/%d", q.shown+1, total)
	bar := components.NewProgressBar(label, float64(q.shown)/float64(total), false, min(cw, 50)).View()

	steps := make([]components.StepState, total)
	for i, o := range q.session.Outcomes() {
		if o.Success {
			steps[i] = components.StepPassed
		} else {
			steps[i] = components.StepFailed
		}
	}
	if q.shown < total {
		steps[q.shown] = components.StepCurrent
	}
	return bar + "\n" + components.StepBar(steps)
}

func (q *QuizScreen) renderLevel(cw int) string {
	switch v := q.validator.(type) {
	case *levels.Audio:
		return q.renderAudio(v) + "\n\n" + q.list.View()
	case *levels.Choice:
		if img := imageOf(v); img != "" {
			return renderPicture(img) + "\n\n" + q.list.View()
		}
		return q.list.View()
	case *levels.YesNo:
		return q.renderYesNo(v)
	case *levels.Matching:
		return q.renderMatching(v, cw)
	case *levels.WordPuzzle:
		return q.renderWord(v)
	}
	return ""
}

func (q *QuizScreen) renderAudio(a *levels.Audio) string {
	icon := "▶ Press p to listen"
	if a.Playing() {
		icon = "■ Playing… (p to stop)"
	}
	out := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(icon)
	if q.audioErr != nil {
		out += "\n" + theme.Hint.Render("Audio unavailable, answer from the options.")
	}
	return out
}

func (q *QuizScreen) renderYesNo(v *levels.YesNo) string {
	answer, answered := v.Answered()
	btn := func(label string, value bool) string {
		style := theme.ButtonInactive
		switch {
		case answered && value == v.CorrectAnswer():
			style = style.BorderForeground(theme.Success).Foreground(theme.Success)
		case answered && value == answer:
			style = style.BorderForeground(theme.Error).Foreground(theme.Error)
		case !answered && value == q.yes:
			style = theme.ButtonActive.Border(lipgloss.RoundedBorder()).BorderForeground(theme.Primary)
		}
		return style.Width(12).Align(lipgloss.Center).Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, btn("Yes (y)", true), "   ", btn("No (n)", false))
}

func (q *QuizScreen) renderMatching(v *levels.Matching, cw int) string {
	armed, _ := v.Armed()
	colWidth := max(12, (cw-4)/2)

	render := func(items []levels.Item, col int) string {
		lines := make([]string, len(items))
		for i, it := range items {
			label := it.Text
			if it.ImageURL != "" {
				label = renderPicture(it.ImageURL)
			}
			focused := col == q.column && i == q.cursor[col]
			prefix := "  "
			if focused {
				prefix = "▸ "
			}

			style := lipgloss.NewStyle().Foreground(theme.Text)
			switch {
			case v.IsMatched(it.PairID):
				style = lipgloss.NewStyle().Foreground(theme.Success).Strikethrough(true)
			case col == 0 && it.PairID == armed:
				style = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Accent).Bold(true)
			case focused:
				style = theme.Selected
			}
			lines[i] = style.Width(colWidth).Render(prefix + label)
		}
		return strings.Join(lines, "\n")
	}

	cols := lipgloss.JoinHorizontal(lipgloss.Top, render(v.Left(), 0), "    ", render(v.Right(), 1))
	matched, total := v.Progress()
	status := theme.Hint.Render(fmt.Sprintf("%d/%d matched", matched, total))
	if v.Wrong() {
		status = theme.Incorrect.Render("Not a pair, try again")
	}
	return cols + "\n\n" + status
}

func (q *QuizScreen) renderWord(v *levels.WordPuzzle) string {
	var picture string
	if img := imageOf(v); img != "" {
		picture = renderPicture(img) + "\n\n"
	}

	slotStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	switch v.Status() {
	case levels.WordSolved:
		slotStyle = theme.Correct
	case levels.WordWrong:
		slotStyle = theme.Incorrect
	}
	slots := v.Slots()
	cells := make([]string, len(slots))
	for i, s := range slots {
		if s.Filled {
			cells[i] = slotStyle.Render("[" + s.Tile.Letter + "]")
		} else {
			cells[i] = lipgloss.NewStyle().Foreground(theme.Border).Render("[ ]")
		}
	}

	bank := v.Bank()
	tiles := make([]string, len(bank))
	for i, t := range bank {
		style := lipgloss.NewStyle().Foreground(theme.Text).Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border)
		if i == q.bankIndex {
			style = style.BorderForeground(theme.Primary).Foreground(theme.Primary).Bold(true)
		}
		tiles[i] = style.Render(t.Letter)
	}

	out := picture + strings.Join(cells, " ") + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
	if v.Status() == levels.WordWrong {
		out += "\n" + theme.Incorrect.Render("Not quite, the letters go back to the bank")
	}
	return out
}

func (q *QuizScreen) renderFeedback() string {
	switch q.validator.Result() {
	case levels.Succeeded:
		return theme.Correct.Render("Correct!")
	case levels.Failed:
		return theme.Incorrect.Render("Not quite.") + " " + theme.Hint.Render("Answer: "+q.expected())
	}
	return ""
}

func (q *QuizScreen) expected() string {
	switch v := q.validator.(type) {
	case *levels.Choice:
		return v.CorrectAnswer()
	case *levels.Audio:
		return v.CorrectAnswer()
	case *levels.YesNo:
		if v.CorrectAnswer() {
			return "Yes"
		}
		return "No"
	}
	return ""
}

// imageOf returns the picture a level shows, if any.
func imageOf(v levels.Validator) string {
	switch l := v.Level().(type) {
	case *content.MCQImage:
		return l.ImageURL
	case *content.WordPuzzle:
		return l.ImageURL
	}
	return ""
}

// renderPicture stands in for an image the terminal cannot draw.
func renderPicture(url string) string {
	name := strings.TrimSuffix(path.Base(url), path.Ext(url))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Foreground(theme.Accent).
		Padding(0, 2).
		Render("🖼  " + name)
}
