package quiz

import (
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/levels"
)

func (q *QuizScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch v := q.validator.(type) {
	case *levels.Audio:
		if msg.String() == "p" {
			return q.playCmd(v)
		}
		q.pickChoice(msg, v.Options(), v.CorrectAnswer(), v.Pick)
	case *levels.Choice:
		q.pickChoice(msg, v.Options(), v.CorrectAnswer(), v.Pick)
	case *levels.YesNo:
		q.answerYesNo(msg, v)
	case *levels.Matching:
		q.selectMatch(msg, v)
	case *levels.WordPuzzle:
		q.spell(msg, v)
	}
	return nil
}

func (q *QuizScreen) pickChoice(msg tea.KeyPressMsg, options []string, correct string, pick func(string) bool) {
	var picked int
	q.list, picked = q.list.Update(msg)
	if picked < 0 || picked >= len(options) {
		return
	}
	if pick(options[picked]) {
		q.list.Reveal(picked, slices.Index(options, correct))
	}
}

func (q *QuizScreen) answerYesNo(msg tea.KeyPressMsg, v *levels.YesNo) {
	switch msg.String() {
	case "left", "h", "right", "l", "tab":
		q.yes = !q.yes
	case "y":
		q.yes = true
		v.Answer(true)
	case "n":
		q.yes = false
		v.Answer(false)
	case "enter", "space":
		v.Answer(q.yes)
	}
}

func (q *QuizScreen) selectMatch(msg tea.KeyPressMsg, v *levels.Matching) {
	columns := [2][]levels.Item{v.Left(), v.Right()}
	col := columns[q.column]

	switch msg.String() {
	case "tab", "left", "h", "right", "l":
		q.column = 1 - q.column
	case "up", "k":
		if q.cursor[q.column] > 0 {
			q.cursor[q.column]--
		}
	case "down", "j":
		if q.cursor[q.column] < len(col)-1 {
			q.cursor[q.column]++
		}
	case "enter", "space":
		if len(col) == 0 {
			return
		}
		item := col[q.cursor[q.column]]
		if q.column == 0 {
			if v.SelectLeft(item.PairID) {
				if _, armed := v.Armed(); armed {
					q.column = 1
				}
			}
			return
		}
		v.SelectRight(item.PairID)
		if _, armed := v.Armed(); !armed {
			q.column = 0
		}
	}
}

func (q *QuizScreen) spell(msg tea.KeyPressMsg, v *levels.WordPuzzle) {
	bank := v.Bank()
	switch msg.String() {
	case "left", "h":
		if q.bankIndex > 0 {
			q.bankIndex--
		}
	case "right", "l":
		if q.bankIndex < len(bank)-1 {
			q.bankIndex++
		}
	case "enter", "space":
		if q.bankIndex < len(bank) {
			v.PlaceLetter(bank[q.bankIndex].ID)
		}
	case "backspace":
		slots := v.Slots()
		for i := len(slots) - 1; i >= 0; i-- {
			if slots[i].Filled {
				v.ReturnLetter(i)
				break
			}
		}
	}
	q.bankIndex = min(q.bankIndex, max(0, len(v.Bank())-1))
}
