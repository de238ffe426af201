// Package quiz is the topic quiz screen. It walks a quiz session level by
// level, building a validator for each and drawing the matching widget.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/levels"
	"github.com/abhisek/parley/internal/quiz"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/screens/summary"
	"github.com/abhisek/parley/internal/speech"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/layout"
	"github.com/abhisek/parley/internal/ui/teaclock"
)

// Options configures a quiz screen.
type Options struct {
	Timings levels.Timings
	Speaker speech.Speaker
	Logger  *slog.Logger

	// Rand seeds shuffling. Nil uses a random source.
	Rand *rand.Rand
}

// audioDoneMsg is sent when speech for a listening level ends.
type audioDoneMsg struct {
	levelID string
	err     error
}

// QuizScreen plays one topic.
type QuizScreen struct {
	topic   *content.Topic
	opts    Options
	logger  *slog.Logger
	clock   *teaclock.Clock
	session *quiz.Session

	ctx    context.Context
	cancel context.CancelFunc

	validator levels.Validator
	shown     int
	finished  bool
	err       error

	// Per-level widget state, reset by load.
	list      components.ChoiceList
	yes       bool
	column    int
	cursor    [2]int
	bankIndex int
	audioErr  error
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a quiz screen for topic. The session begins in Init.
func New(topic *content.Topic, opts Options) *QuizScreen {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Speaker == nil {
		opts.Speaker = speech.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &QuizScreen{
		topic:   topic,
		opts:    opts,
		logger:  opts.Logger,
		clock:   teaclock.New(),
		session: quiz.New(quiz.WithLogger(opts.Logger)),
		ctx:     ctx,
		cancel:  cancel,
		shown:   -1,
	}
}

func (q *QuizScreen) Init() tea.Cmd {
	if err := q.session.Begin(q.topic); err != nil {
		q.logger.Error("cannot begin topic", "error", err)
		q.err = err
		return nil
	}
	return q.advance()
}

func (q *QuizScreen) Title() string {
	if q.topic == nil {
		return "Quiz"
	}
	return q.topic.Name
}

func (q *QuizScreen) Status() string {
	if q.topic == nil {
		return ""
	}
	st := q.session.State()
	return fmt.Sprintf("★ %d/%d", st.Score, len(q.topic.Levels))
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	var h []layout.KeyHint
	switch q.validator.(type) {
	case *levels.Audio:
		h = []layout.KeyHint{{Key: "p", Description: "Play"}, {Key: "1-9", Description: "Answer"}}
	case *levels.Choice:
		h = []layout.KeyHint{{Key: "↑/↓", Description: "Move"}, {Key: "1-9", Description: "Answer"}}
	case *levels.YesNo:
		h = []layout.KeyHint{{Key: "y/n", Description: "Answer"}}
	case *levels.Matching:
		h = []layout.KeyHint{{Key: "Tab", Description: "Column"}, {Key: "Enter", Description: "Select"}}
	case *levels.WordPuzzle:
		h = []layout.KeyHint{{Key: "←/→", Description: "Letter"}, {Key: "Enter", Description: "Place"}, {Key: "⌫", Description: "Undo"}}
	}
	return append(h, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (q *QuizScreen) Close() {
	q.cancel()
	if q.validator != nil {
		q.validator.Close()
	}
	q.clock.StopAll()
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if handled, cmd := q.clock.Handle(msg); handled {
		return q, tea.Batch(cmd, q.advance())
	}

	switch msg := msg.(type) {
	case audioDoneMsg:
		if msg.err != nil && q.validator != nil && msg.levelID == q.validator.Level().LevelID() {
			q.audioErr = msg.err
		}
		return q, nil

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return q, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if q.validator == nil || q.finished {
			return q, nil
		}
		cmd := q.handleKey(msg)
		return q, tea.Batch(cmd, q.clock.Cmd())
	}

	return q, nil
}

// advance follows the session after a level report: it loads the next
// level or hands over to the summary once the session is over.
func (q *QuizScreen) advance() tea.Cmd {
	if q.finished {
		return nil
	}
	st := q.session.State()
	if st.IsOver {
		q.finished = true
		q.closeValidator()
		sum := q.session.Summary()
		q.logger.Info("quiz results",
			"score", sum.Score,
			"total", sum.Total,
			"missed", sum.Missed(),
		)
		topic, opts := q.topic, q.opts
		next := summary.New(sum, func() screen.Screen { return New(topic, opts) })
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	if st.LevelIndex == q.shown {
		return nil
	}
	cmd := q.load()
	return tea.Batch(cmd, q.clock.Cmd(), q.advance())
}

// load builds the validator for the session's current level. A level that
// cannot be built counts as failed so the session never stalls.
func (q *QuizScreen) load() tea.Cmd {
	q.closeValidator()
	st := q.session.State()
	q.shown = st.LevelIndex
	q.list = components.ChoiceList{}
	q.yes = true
	q.column = 0
	q.cursor = [2]int{}
	q.bankIndex = 0
	q.audioErr = nil

	level, ok := q.session.CurrentLevel()
	if !ok {
		return nil
	}
	report := q.session.LevelCompleter()
	v, err := levels.New(level, q.clock, report, q.levelOptions()...)
	if err != nil {
		q.logger.Warn("skipping unplayable level", "index", st.LevelIndex, "error", err)
		report(false)
		return nil
	}
	q.validator = v

	switch v := v.(type) {
	case *levels.Audio:
		q.list = components.NewChoiceList(v.Options())
		return q.playCmd(v)
	case *levels.Choice:
		q.list = components.NewChoiceList(v.Options())
	}
	return nil
}

func (q *QuizScreen) levelOptions() []levels.Option {
	opts := []levels.Option{
		levels.WithTimings(q.opts.Timings),
		levels.WithLogger(q.logger),
		levels.WithSpeaker(q.opts.Speaker),
	}
	if q.opts.Rand != nil {
		opts = append(opts, levels.WithRand(q.opts.Rand))
	}
	return opts
}

func (q *QuizScreen) closeValidator() {
	if q.validator != nil {
		q.validator.Close()
		q.validator = nil
	}
}

// playCmd toggles speech for a listening level. Speech runs off the update
// loop and reports back with audioDoneMsg.
func (q *QuizScreen) playCmd(a *levels.Audio) tea.Cmd {
	if a.Playing() {
		a.Stop()
		return nil
	}
	ctx := q.ctx
	id := a.Level().LevelID()
	return func() tea.Msg {
		return audioDoneMsg{levelID: id, err: a.Play(ctx)}
	}
}
