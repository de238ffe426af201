package levels

import (
	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
)

// YesNo validates true/false levels. It completes on the first answer.
type YesNo struct {
	base
	correct bool
	answer  bool
}

var _ Validator = (*YesNo)(nil)

func NewYesNo(level *content.YesNo, sched clock.Scheduler, report Reporter, opts ...Option) *YesNo {
	y := &YesNo{correct: level.CorrectAnswer}
	y.setup(level, sched, report, opts)
	return y
}

// Answer submits v. Only the first answer counts.
func (y *YesNo) Answer(v bool) bool {
	y.mu.Lock()
	defer y.mu.Unlock()
	if y.result != Pending {
		return false
	}
	y.answer = v
	y.finish(v == y.correct, y.opts.timings.YesNo)
	return true
}

// Answered returns the submitted answer, if any.
func (y *YesNo) Answered() (bool, bool) {
	y.mu.Lock()
	defer y.mu.Unlock()
	return y.answer, y.result != Pending
}

func (y *YesNo) CorrectAnswer() bool { return y.correct }
