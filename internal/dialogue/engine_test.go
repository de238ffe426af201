package dialogue

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
)

func cafeScenario() *content.Scenario {
	return &content.Scenario{
		ID:            "cafe",
		Title:         "Café",
		InitialNodeID: "start",
		Nodes: map[string]*content.Node{
			"start": {
				ID:   "start",
				Text: "Hi! What can I get you?",
				Choices: []content.Choice{
					{ID: "c1", Text: "Americano, please", NextID: "end", Correct: true},
					{ID: "c2", Text: "Where is the station?", Feedback: "Please order first."},
					{ID: "c3", Text: "Uh..."},
				},
			},
			"end": {ID: "end", Text: "Here you go!"},
		},
	}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual()
	n := 0
	opts = append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithIDFunc(func() string { n++; return fmt.Sprintf("m%d", n) }),
	}, opts...)
	return New(clk, opts...), clk
}

func choice(id string) content.Choice { return content.Choice{ID: id} }

func TestEngine_InitialState(t *testing.T) {
	e, _ := newTestEngine(t)
	s := e.State()
	assert.Equal(t, PhaseStart, s.Phase)
	assert.Empty(t, s.Messages)
	assert.False(t, e.SelectChoice(choice("c1")))
}

func TestEngine_StartRevealsOpeningAfterThinking(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))

	s := e.State()
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.True(t, s.IsTyping)
	assert.False(t, s.ChoicesVisible)
	assert.Empty(t, s.Messages)
	assert.Equal(t, "start", s.CurrentNodeID)

	clk.Advance(999 * time.Millisecond)
	assert.Empty(t, e.State().Messages)

	clk.Advance(time.Millisecond)
	s = e.State()
	require.Len(t, s.Messages, 1)
	assert.Equal(t, SenderBot, s.Messages[0].Sender)
	assert.Equal(t, "Hi! What can I get you?", s.Messages[0].Text)
	assert.False(t, s.IsTyping)
	assert.True(t, s.ChoicesVisible)
}

func TestEngine_CorrectChoiceReachesEnd(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)

	require.True(t, e.SelectChoice(choice("c1")))
	s := e.State()
	require.Len(t, s.Messages, 2)
	assert.Equal(t, SenderUser, s.Messages[1].Sender)
	assert.Equal(t, "Americano, please", s.Messages[1].Text)
	assert.True(t, s.IsTyping)
	assert.False(t, s.ChoicesVisible)

	clk.Advance(1200 * time.Millisecond)
	s = e.State()
	require.Len(t, s.Messages, 3)
	assert.Equal(t, "Here you go!", s.Messages[2].Text)
	assert.Equal(t, "end", s.CurrentNodeID)
	assert.Equal(t, PhaseGameOver, s.Phase)
	assert.False(t, s.IsTyping)
	assert.False(t, s.ChoicesVisible)
}

func TestEngine_WrongChoiceShowsFeedbackAndRetries(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)

	require.True(t, e.SelectChoice(choice("c2")))
	clk.Advance(time.Second)

	s := e.State()
	require.Len(t, s.Messages, 3)
	last := s.Messages[2]
	assert.Equal(t, SenderBot, last.Sender)
	assert.Equal(t, "Please order first.", last.Text)
	assert.True(t, last.IsErrorFeedback)
	assert.Equal(t, "start", s.CurrentNodeID)
	assert.True(t, s.IsTyping)
	assert.False(t, s.ChoicesVisible)

	clk.Advance(1500 * time.Millisecond)
	s = e.State()
	assert.False(t, s.IsTyping)
	assert.True(t, s.ChoicesVisible)
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, "start", s.CurrentNodeID)
}

func TestEngine_WrongChoiceFallbackFeedback(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)

	require.True(t, e.SelectChoice(choice("c3")))
	clk.RunAll()

	last, ok := e.State().LastMessage()
	require.True(t, ok)
	assert.Equal(t, FallbackFeedback, last.Text)
	assert.True(t, last.IsErrorFeedback)
}

func TestEngine_DanglingNextEndsScenario(t *testing.T) {
	for _, next := range []string{"", "nowhere"} {
		t.Run("next="+next, func(t *testing.T) {
			sc := cafeScenario()
			sc.Nodes["start"].Choices[0].NextID = next

			e, clk := newTestEngine(t)
			require.NoError(t, e.Start(sc))
			clk.Advance(time.Second)
			require.True(t, e.SelectChoice(choice("c1")))
			clk.RunAll()

			s := e.State()
			assert.Equal(t, PhaseGameOver, s.Phase)
			assert.False(t, s.IsTyping)
			assert.Equal(t, "start", s.CurrentNodeID)
			assert.Len(t, s.Messages, 2)
		})
	}
}

func TestEngine_IgnoresDoubleSubmission(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)

	require.True(t, e.SelectChoice(choice("c2")))
	assert.False(t, e.SelectChoice(choice("c1")))
	assert.False(t, e.SelectChoice(choice("c2")))
	assert.Len(t, e.State().Messages, 2)
}

func TestEngine_IgnoresChoiceWhileTyping(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	assert.False(t, e.SelectChoice(choice("c1")))
	assert.Empty(t, e.State().Messages)
}

func TestEngine_IgnoresChoiceFromOtherNode(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)

	assert.False(t, e.SelectChoice(choice("unknown")))
	s := e.State()
	assert.Len(t, s.Messages, 1)
	assert.True(t, s.ChoicesVisible)
}

func TestEngine_UsesAuthoredChoiceText(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)

	require.True(t, e.SelectChoice(content.Choice{ID: "c1", Text: "spoofed", Correct: false}))
	clk.RunAll()

	s := e.State()
	assert.Equal(t, "Americano, please", s.Messages[1].Text)
	assert.Equal(t, "end", s.CurrentNodeID)
}

func TestEngine_RestartDiscardsPendingReplies(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)
	require.True(t, e.SelectChoice(choice("c1")))

	require.NoError(t, e.Start(cafeScenario()))
	s := e.State()
	assert.Empty(t, s.Messages)
	assert.True(t, s.IsTyping)

	clk.Advance(time.Second)
	s = e.State()
	require.Len(t, s.Messages, 1)
	assert.Equal(t, "start", s.CurrentNodeID)
	assert.Equal(t, PhasePlaying, s.Phase)

	clk.RunAll()
	assert.Len(t, e.State().Messages, 1)
}

func TestEngine_StartFromGameOver(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)
	require.True(t, e.SelectChoice(choice("c1")))
	clk.RunAll()
	require.Equal(t, PhaseGameOver, e.State().Phase)

	require.NoError(t, e.Start(cafeScenario()))
	clk.RunAll()
	s := e.State()
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Len(t, s.Messages, 1)
}

func TestEngine_CloseCancelsPending(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	e.Close()
	clk.RunAll()
	assert.Empty(t, e.State().Messages)
}

func TestEngine_CorrectChoicesMayShareDestination(t *testing.T) {
	sc := cafeScenario()
	sc.Nodes["start"].Choices[1] = content.Choice{ID: "c2", Text: "A latte", NextID: "end", Correct: true}

	for _, id := range []string{"c1", "c2"} {
		e, clk := newTestEngine(t)
		require.NoError(t, e.Start(sc))
		clk.Advance(time.Second)
		require.True(t, e.SelectChoice(choice(id)))
		clk.RunAll()
		assert.Equal(t, "end", e.State().CurrentNodeID)
		assert.Equal(t, PhaseGameOver, e.State().Phase)
	}
}

func TestEngine_TerminalInitialNode(t *testing.T) {
	sc := &content.Scenario{
		ID:            "hello",
		InitialNodeID: "only",
		Nodes:         map[string]*content.Node{"only": {ID: "only", Text: "Bye!"}},
	}
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(sc))
	clk.RunAll()

	s := e.State()
	assert.Equal(t, PhaseGameOver, s.Phase)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, "Bye!", s.Messages[0].Text)
}

func TestEngine_StartMissingInitialNode(t *testing.T) {
	sc := cafeScenario()
	sc.InitialNodeID = "missing"

	e, clk := newTestEngine(t)
	err := e.Start(sc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrMissingInitialNode))
	assert.Equal(t, PhaseStart, e.State().Phase)
	assert.Zero(t, clk.Pending())
}

func TestEngine_MessageIDsUnique(t *testing.T) {
	clk := clock.NewManual()
	e := New(clk, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)
	require.True(t, e.SelectChoice(choice("c2")))
	clk.RunAll()
	require.True(t, e.SelectChoice(choice("c1")))
	clk.RunAll()

	seen := map[string]bool{}
	for _, m := range e.State().Messages {
		assert.NotEmpty(t, m.ID)
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
	assert.Len(t, seen, 5)
}

func TestEngine_OnChangeReceivesSnapshots(t *testing.T) {
	var states []State
	e, clk := newTestEngine(t, WithOnChange(func(s State) { states = append(states, s) }))
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)
	require.True(t, e.SelectChoice(choice("c1")))
	clk.RunAll()

	require.Len(t, states, 4)
	assert.True(t, states[0].IsTyping)
	assert.True(t, states[1].ChoicesVisible)
	assert.Len(t, states[2].Messages, 2)
	assert.Equal(t, PhaseGameOver, states[3].Phase)
}

func TestEngine_StateIsACopy(t *testing.T) {
	e, clk := newTestEngine(t)
	require.NoError(t, e.Start(cafeScenario()))
	clk.Advance(time.Second)

	s := e.State()
	s.Messages[0].Text = "changed"
	assert.Equal(t, "Hi! What can I get you?", e.State().Messages[0].Text)
}
