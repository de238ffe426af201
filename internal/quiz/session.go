// Package quiz sequences the levels of a topic and keeps score. It never
// looks inside a level; validators report a bare success flag.
package quiz

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/parley/internal/content"
)

// ErrNotStarted is returned by Restart before any topic was begun.
var ErrNotStarted = errors.New("quiz session not started")

// State is a snapshot of a quiz session.
type State struct {
	LevelIndex int
	Score      int
	IsOver     bool
}

// Outcome records how one level ended.
type Outcome struct {
	LevelID string
	Type    content.LevelType
	Success bool
}

// Session walks a topic's levels in order.
type Session struct {
	mu       sync.Mutex
	logger   *slog.Logger
	onChange func(State)

	id         string
	topic      *content.Topic
	state      State
	outcomes   []Outcome
	generation uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithOnChange registers a callback run after each state change, outside
// the session lock.
func WithOnChange(fn func(State)) Option {
	return func(s *Session) { s.onChange = fn }
}

// New creates an idle session.
func New(opts ...Option) *Session {
	s := &Session{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin resets the session onto the first level of topic.
func (s *Session) Begin(topic *content.Topic) error {
	if err := topic.CheckBegin(); err != nil {
		return err
	}

	s.mu.Lock()
	s.topic = topic
	s.reset()
	snap := s.state
	id := s.id
	s.mu.Unlock()

	s.logger.Info("quiz started", "session", id, "topic", topic.ID, "levels", len(topic.Levels))
	s.notify(snap)
	return nil
}

// Restart begins the current topic again.
func (s *Session) Restart() error {
	s.mu.Lock()
	topic := s.topic
	s.mu.Unlock()
	if topic == nil {
		return ErrNotStarted
	}
	return s.Begin(topic)
}

// CompleteCurrentLevel records the active level's outcome and moves on. It
// is ignored once the session is over or before Begin. Every call counts,
// so a second call completes the next level too. Callers that may report
// more than once for the same level should use LevelCompleter instead.
func (s *Session) CompleteCurrentLevel(success bool) bool {
	s.mu.Lock()
	if s.topic == nil || s.state.IsOver {
		s.mu.Unlock()
		return false
	}
	s.complete(success)
	snap := s.state
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// LevelCompleter returns a report function bound to the level that is
// active right now. Only its first call counts, and none count after the
// session has moved past that level or restarted.
func (s *Session) LevelCompleter() func(success bool) {
	s.mu.Lock()
	gen, index := s.generation, s.state.LevelIndex
	s.mu.Unlock()

	var once sync.Once
	return func(success bool) {
		once.Do(func() {
			s.mu.Lock()
			if s.topic == nil || s.state.IsOver || s.generation != gen || s.state.LevelIndex != index {
				s.mu.Unlock()
				s.logger.Debug("stale level completion ignored", "level_index", index)
				return
			}
			s.complete(success)
			snap := s.state
			s.mu.Unlock()
			s.notify(snap)
		})
	}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Topic returns the topic being played, or nil before Begin.
func (s *Session) Topic() *content.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// CurrentLevel returns the active level. It reports false once the session
// is over.
func (s *Session) CurrentLevel() (content.Level, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topic == nil || s.state.IsOver {
		return nil, false
	}
	return s.topic.Levels[s.state.LevelIndex], true
}

// Outcomes returns the results recorded so far, in level order.
func (s *Session) Outcomes() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

func (s *Session) reset() {
	s.id = uuid.NewString()
	s.generation++
	s.state = State{}
	s.outcomes = s.outcomes[:0:0]
}

// complete is called with s.mu held.
func (s *Session) complete(success bool) {
	level := s.topic.Levels[s.state.LevelIndex]
	s.outcomes = append(s.outcomes, Outcome{
		LevelID: level.LevelID(),
		Type:    level.Type(),
		Success: success,
	})
	if success {
		s.state.Score++
	}

	s.logger.Debug("level completed",
		"session", s.id,
		"level", level.LevelID(),
		"type", level.Type(),
		"success", success,
	)

	if s.state.LevelIndex == len(s.topic.Levels)-1 {
		s.state.IsOver = true
		s.logger.Info("quiz finished", "session", s.id, "topic", s.topic.ID,
			"score", s.state.Score, "total", len(s.topic.Levels))
		return
	}
	s.state.LevelIndex++
}

func (s *Session) notify(st State) {
	if s.onChange != nil {
		s.onChange(st)
	}
}
