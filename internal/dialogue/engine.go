package dialogue

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
)

// Engine owns one dialogue session. All state changes go through Start and
// SelectChoice; readers get copies via State.
type Engine struct {
	mu       sync.Mutex
	timers   *clock.Group
	timings  Timings
	logger   *slog.Logger
	newID    func() string
	onChange func(State)

	scenario *content.Scenario
	state    State

	// generation increments on every Start. Continuations scheduled under
	// an older generation are dropped if they still fire.
	generation uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimings overrides the reply pacing.
func WithTimings(t Timings) Option {
	return func(e *Engine) { e.timings = t }
}

// WithLogger sets the logger used for session lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithOnChange registers a callback invoked with a fresh snapshot after
// every state change. It runs outside the engine lock.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// WithIDFunc overrides message id generation.
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New creates an idle engine that schedules its pauses on sched.
func New(sched clock.Scheduler, opts ...Option) *Engine {
	e := &Engine{
		timers:  clock.NewGroup(sched),
		timings: DefaultTimings(),
		logger:  slog.Default(),
		newID:   uuid.NewString,
		state:   State{Phase: PhaseStart},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start resets the session onto the scenario's initial node. The opening
// line appears after the thinking pause. Calling Start mid-session abandons
// the current conversation and any reply still pending.
func (e *Engine) Start(sc *content.Scenario) error {
	if err := sc.CheckStart(); err != nil {
		return err
	}

	e.mu.Lock()
	e.timers.StopAll()
	e.generation++
	e.scenario = sc
	e.state = State{
		CurrentNodeID: sc.InitialNodeID,
		Phase:         PhasePlaying,
		IsTyping:      true,
	}
	e.after(e.timings.Thinking, e.revealOpening)
	snap := e.state.clone()
	e.mu.Unlock()

	e.logger.Info("dialogue started", "scenario", sc.ID, "node", sc.InitialNodeID)
	e.notify(snap)
	return nil
}

// SelectChoice answers the current node with choice, matched by id. It is
// ignored (returning false) unless choices are visible and the choice
// belongs to the current node.
func (e *Engine) SelectChoice(choice content.Choice) bool {
	e.mu.Lock()
	if e.state.Phase != PhasePlaying || !e.state.ChoicesVisible {
		e.mu.Unlock()
		e.logger.Debug("choice ignored: choices hidden", "choice", choice.ID)
		return false
	}
	node, _ := e.scenario.Node(e.state.CurrentNodeID)
	c, ok := node.Choice(choice.ID)
	if !ok {
		e.mu.Unlock()
		e.logger.Debug("choice ignored: not offered at node", "choice", choice.ID, "node", node.ID)
		return false
	}

	e.state.ChoicesVisible = false
	e.appendMessage(SenderUser, c.Text, false)
	e.state.IsTyping = true

	if c.Correct {
		e.after(e.timings.Reply, func() { e.advance(c) })
	} else {
		e.after(e.timings.Feedback, func() { e.retry(c) })
	}
	snap := e.state.clone()
	e.mu.Unlock()

	e.logger.Debug("choice selected", "node", node.ID, "choice", c.ID, "correct", c.Correct)
	e.notify(snap)
	return true
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// CurrentChoices returns the replies offered at the current node.
func (e *Engine) CurrentChoices() []content.Choice {
	e.mu.Lock()
	defer e.mu.Unlock()
	node, ok := e.scenario.Node(e.state.CurrentNodeID)
	if !ok {
		return nil
	}
	out := make([]content.Choice, len(node.Choices))
	copy(out, node.Choices)
	return out
}

// Close cancels any pending replies. The transcript stays readable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timers.StopAll()
	e.generation++
}

// revealOpening shows the initial node. Called with e.mu held.
func (e *Engine) revealOpening() {
	node, _ := e.scenario.Node(e.state.CurrentNodeID)
	e.appendMessage(SenderBot, node.Text, false)
	e.state.IsTyping = false
	e.enter(node)
}

// advance follows a correct choice. Called with e.mu held.
func (e *Engine) advance(c content.Choice) {
	next, ok := e.scenario.Node(c.NextID)
	if !ok {
		if c.NextID != "" {
			e.logger.Warn("choice leads to missing node, ending scenario",
				"scenario", e.scenario.ID, "choice", c.ID, "next", c.NextID)
		}
		e.state.IsTyping = false
		e.state.Phase = PhaseGameOver
		return
	}

	e.state.CurrentNodeID = c.NextID
	e.appendMessage(SenderBot, next.Text, false)
	e.state.IsTyping = false
	e.enter(next)
}

// retry shows feedback for a wrong choice and then re-offers the same
// node. Called with e.mu held.
func (e *Engine) retry(c content.Choice) {
	text := c.Feedback
	if text == "" {
		text = FallbackFeedback
	}
	e.appendMessage(SenderBot, text, true)
	e.state.IsTyping = true

	e.after(e.timings.RetryReveal, func() {
		e.state.IsTyping = false
		e.state.ChoicesVisible = true
	})
}

func (e *Engine) enter(node *content.Node) {
	if node.Terminal() {
		e.state.Phase = PhaseGameOver
		e.logger.Info("dialogue complete", "scenario", e.scenario.ID, "node", node.ID)
		return
	}
	e.state.ChoicesVisible = true
}

func (e *Engine) appendMessage(sender Sender, text string, isError bool) {
	e.state.Messages = append(e.state.Messages, Message{
		ID:              e.newID(),
		Sender:          sender,
		Text:            text,
		IsErrorFeedback: isError,
	})
}

// after schedules fn under the current generation. Called with e.mu held;
// fn runs with e.mu held.
func (e *Engine) after(d time.Duration, fn func()) {
	gen := e.generation
	e.timers.AfterFunc(d, func() {
		e.mu.Lock()
		if e.generation != gen {
			e.mu.Unlock()
			return
		}
		fn()
		snap := e.state.clone()
		e.mu.Unlock()
		e.notify(snap)
	})
}

func (e *Engine) notify(s State) {
	if e.onChange != nil {
		e.onChange(s)
	}
}
