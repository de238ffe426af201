// Package speech is the text-to-speech capability used by audio levels.
// Speech is best effort: callers treat every error as "no audio" and carry on.
package speech

import (
	"context"
	"errors"

	"golang.org/x/text/language"
)

// ErrUnavailable means no speech backend can be used.
var ErrUnavailable = errors.New("speech unavailable")

// Callbacks observe one utterance. Any of them may be nil.
type Callbacks struct {
	OnStart func()
	OnEnd   func()
	OnError func(error)
}

func (c Callbacks) start() {
	if c.OnStart != nil {
		c.OnStart()
	}
}

func (c Callbacks) end() {
	if c.OnEnd != nil {
		c.OnEnd()
	}
}

func (c Callbacks) fail(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

// Speaker says text aloud. Speak blocks until the utterance finishes, fails,
// or ctx is cancelled. Cancellation counts as a normal end.
type Speaker interface {
	Speak(ctx context.Context, text string, lang language.Tag, cb Callbacks) error
}

// Nop is the Speaker used when speech is disabled or missing.
type Nop struct{}

var _ Speaker = Nop{}

func (Nop) Speak(_ context.Context, _ string, _ language.Tag, cb Callbacks) error {
	cb.fail(ErrUnavailable)
	return ErrUnavailable
}
