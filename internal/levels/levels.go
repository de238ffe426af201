// Package levels implements the per-type validators that run one quiz
// level: they shuffle the presentation, take the learner's actions, decide
// the outcome and report it once after a short feedback pause.
package levels

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/speech"
)

// Reporter receives a level's final outcome.
type Reporter func(success bool)

// Result is a validator's verdict so far.
type Result int

const (
	Pending   Result = iota // Still waiting for input
	Succeeded               // Won; report scheduled or sent
	Failed                  // Lost; report scheduled or sent
)

func (r Result) String() string {
	switch r {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Validator is the common surface of every level validator. The concrete
// types add the actions their level type accepts.
type Validator interface {
	Level() content.Level
	Result() Result

	// Close cancels pending timers, including an unsent report.
	Close()
}

// Timings are the feedback pauses per level type.
type Timings struct {
	// Choice is the pause after answering a multiple-choice question.
	Choice time.Duration

	// YesNo is the pause after answering a yes/no question.
	YesNo time.Duration

	// MatchComplete is the pause after the last pair is matched.
	MatchComplete time.Duration

	// Mismatch is how long the wrong-match signal stays on.
	Mismatch time.Duration

	// WordSuccess is the pause after spelling the word correctly.
	WordSuccess time.Duration

	// WordReset is how long a wrong spelling stays up before the slots
	// are cleared.
	WordReset time.Duration
}

// DefaultTimings returns the pauses used by the app.
func DefaultTimings() Timings {
	return Timings{
		Choice:        1500 * time.Millisecond,
		YesNo:         1200 * time.Millisecond,
		MatchComplete: 1000 * time.Millisecond,
		Mismatch:      500 * time.Millisecond,
		WordSuccess:   1500 * time.Millisecond,
		WordReset:     1000 * time.Millisecond,
	}
}

type options struct {
	rng     *rand.Rand
	timings Timings
	logger  *slog.Logger
	speaker speech.Speaker
}

// Option configures a validator.
type Option func(*options)

// WithRand makes shuffles replayable.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithTimings overrides the feedback pauses.
func WithTimings(t Timings) Option {
	return func(o *options) { o.timings = t }
}

// WithLogger sets the validator logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSpeaker sets the speech capability for audio levels.
func WithSpeaker(s speech.Speaker) Option {
	return func(o *options) { o.speaker = s }
}

func buildOptions(opts []Option) options {
	o := options{
		timings: DefaultTimings(),
		logger:  slog.Default(),
		speaker: speech.Nop{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the validator for level. report is called exactly once when
// the level ends, unless the validator is closed first.
func New(level content.Level, sched clock.Scheduler, report Reporter, opts ...Option) (Validator, error) {
	if content.IsNil(level) {
		return nil, fmt.Errorf("nil level: %w", content.ErrUnknownLevelType)
	}
	switch l := level.(type) {
	case *content.MCQ:
		return NewChoice(l, l.Options, l.CorrectAnswer, sched, report, opts...), nil
	case *content.MCQImage:
		return NewChoice(l, l.Options, l.CorrectAnswer, sched, report, opts...), nil
	case *content.MCQAudio:
		return NewAudio(l, sched, report, opts...), nil
	case *content.YesNo:
		return NewYesNo(l, sched, report, opts...), nil
	case *content.Matching:
		return NewMatching(l, textItems(l.Pairs), sched, report, opts...), nil
	case *content.MatchingImage:
		return NewMatching(l, imageItems(l.Pairs), sched, report, opts...), nil
	case *content.WordPuzzle:
		return NewWordPuzzle(l, sched, report, opts...), nil
	default:
		return nil, fmt.Errorf("level %q of type %q: %w", level.LevelID(), level.Type(), content.ErrUnknownLevelType)
	}
}

// base carries what every validator shares: the lock, timers and the
// once-only report.
type base struct {
	mu     sync.Mutex
	level  content.Level
	timers *clock.Group
	report Reporter
	opts   options
	result Result
}

func (b *base) setup(level content.Level, sched clock.Scheduler, report Reporter, opts []Option) {
	b.level = level
	b.timers = clock.NewGroup(sched)
	b.report = report
	b.opts = buildOptions(opts)
}

func (b *base) Level() content.Level { return b.level }

func (b *base) Result() Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

func (b *base) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timers.StopAll()
}

// finish records the verdict and schedules the report after delay. Called
// with b.mu held; only the first call has any effect.
func (b *base) finish(success bool, delay time.Duration) {
	if b.result != Pending {
		return
	}
	b.result = Failed
	if success {
		b.result = Succeeded
	}
	b.opts.logger.Debug("level decided",
		"level", b.level.LevelID(),
		"type", b.level.Type(),
		"result", b.result.String(),
	)
	if b.report == nil {
		return
	}
	report := b.report
	b.timers.AfterFunc(delay, func() { report(success) })
}
