package levels

import (
	"context"

	"golang.org/x/text/language"

	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/speech"
)

// Audio is a multiple-choice level whose prompt is spoken. Speech is
// optional: when it fails the level stays playable from the option text.
type Audio struct {
	*Choice
	speaker speech.Speaker
	text    string
	lang    language.Tag

	playing bool
	stop    context.CancelFunc
	playSeq int
}

var _ Validator = (*Audio)(nil)

func NewAudio(level *content.MCQAudio, sched clock.Scheduler, report Reporter, opts ...Option) *Audio {
	c := NewChoice(level, level.Options, level.CorrectAnswer, sched, report, opts...)
	return &Audio{
		Choice:  c,
		speaker: c.opts.speaker,
		text:    level.TextToSpeak,
		lang:    speech.ResolveLanguage(level.Language, level.TextToSpeak),
	}
}

// Language is the tag the phrase is spoken in.
func (a *Audio) Language() language.Tag { return a.lang }

// Playing reports whether speech is in progress.
func (a *Audio) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Play speaks the phrase and blocks until it ends. Calling Play while
// speech is running stops it instead. Nothing is spoken once the level is
// decided.
func (a *Audio) Play(ctx context.Context) error {
	a.mu.Lock()
	if a.playing {
		a.stopLocked()
		a.mu.Unlock()
		return nil
	}
	if a.result != Pending {
		a.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.playSeq++
	seq := a.playSeq
	a.playing = true
	a.stop = cancel
	a.mu.Unlock()

	err := a.speaker.Speak(ctx, a.text, a.lang, speech.Callbacks{
		OnError: func(err error) {
			a.opts.logger.Warn("audio unavailable, continuing without sound",
				"level", a.level.LevelID(), "error", err)
		},
	})

	a.mu.Lock()
	if a.playSeq == seq {
		a.playing = false
		a.stop = nil
	}
	a.mu.Unlock()
	return err
}

// Stop cuts off speech in progress.
func (a *Audio) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *Audio) stopLocked() {
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
	a.playing = false
}

// Pick silences the phrase and submits option.
func (a *Audio) Pick(option string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	return a.pick(option)
}

func (a *Audio) Close() {
	a.Stop()
	a.Choice.Close()
}
