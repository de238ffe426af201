package levels

import (
	"slices"

	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/shuffle"
)

// Choice validates single-answer multiple-choice levels. It completes on
// the first pick; there is no retry.
type Choice struct {
	base
	options  []string
	correct  string
	selected string
}

var _ Validator = (*Choice)(nil)

// NewChoice creates a validator over options with one correct answer.
func NewChoice(level content.Level, options []string, correct string, sched clock.Scheduler, report Reporter, opts ...Option) *Choice {
	c := &Choice{correct: correct}
	c.setup(level, sched, report, opts)
	c.options = shuffle.With(c.opts.rng, options)
	return c
}

// Options returns the options in presentation order.
func (c *Choice) Options() []string {
	return slices.Clone(c.options)
}

// Pick submits option. It is ignored after the first pick and for values
// that are not among the options.
func (c *Choice) Pick(option string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pick(option)
}

func (c *Choice) pick(option string) bool {
	if c.result != Pending || !slices.Contains(c.options, option) {
		return false
	}
	c.selected = option
	c.finish(option == c.correct, c.opts.timings.Choice)
	return true
}

// Selected returns the picked option, if any.
func (c *Choice) Selected() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.result != Pending
}

// CorrectAnswer returns the expected option. Screens reveal it once the
// level is decided.
func (c *Choice) CorrectAnswer() string { return c.correct }
