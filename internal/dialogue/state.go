// Package dialogue runs a scenario conversation: it walks the scenario graph,
// keeps the chat transcript, and paces the partner's replies with timed
// typing pauses.
package dialogue

import "time"

// Phase is the coarse lifecycle of a dialogue session.
type Phase string

const (
	PhaseStart    Phase = "START"     // Not started yet
	PhasePlaying  Phase = "PLAYING"   // Conversation in progress
	PhaseGameOver Phase = "GAME_OVER" // Terminal node reached; only Start leaves it
)

// Sender identifies who authored a transcript message.
type Sender string

const (
	SenderBot  Sender = "bot"
	SenderUser Sender = "user"
)

// FallbackFeedback is the partner's reply to a wrong choice that carries no
// feedback of its own.
const FallbackFeedback = "I didn't catch that. Could you try again?"

// Message is one transcript entry. Messages are never mutated once appended.
type Message struct {
	ID              string
	Sender          Sender
	Text            string
	IsErrorFeedback bool
}

// State is a snapshot of a dialogue session.
type State struct {
	Messages       []Message
	CurrentNodeID  string
	Phase          Phase
	IsTyping       bool
	ChoicesVisible bool
}

// Timings are the pauses the partner takes before each reply.
type Timings struct {
	// Thinking precedes the opening line.
	Thinking time.Duration

	// Reply precedes the next line after a correct choice.
	Reply time.Duration

	// Feedback precedes the correction after a wrong choice.
	Feedback time.Duration

	// RetryReveal is how long wrong-answer feedback stays up before the
	// same choices are offered again.
	RetryReveal time.Duration
}

// DefaultTimings returns the pacing used by the app.
func DefaultTimings() Timings {
	return Timings{
		Thinking:    1000 * time.Millisecond,
		Reply:       1200 * time.Millisecond,
		Feedback:    1000 * time.Millisecond,
		RetryReveal: 1500 * time.Millisecond,
	}
}

func (s State) clone() State {
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	s.Messages = msgs
	return s
}

// LastMessage returns the most recent transcript entry.
func (s State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}
