package quiz

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/parley/internal/content"
)

func testTopic(n int) *content.Topic {
	t := &content.Topic{ID: "food", Name: "Food"}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("l%d", i+1)
		if i%2 == 0 {
			t.Levels = append(t.Levels, &content.MCQ{
				Base:          content.Base{ID: id, Question: "Which is rice?"},
				Options:       []string{"밥", "물"},
				CorrectAnswer: "밥",
			})
		} else {
			t.Levels = append(t.Levels, &content.YesNo{
				Base:          content.Base{ID: id, Question: "Is 물 water?"},
				CorrectAnswer: true,
			})
		}
	}
	return t
}

func newTestSession(opts ...Option) *Session {
	return New(append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)...)
}

func TestSession_Begin(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Begin(testTopic(3)))
	assert.Equal(t, State{}, s.State())

	lvl, ok := s.CurrentLevel()
	require.True(t, ok)
	assert.Equal(t, "l1", lvl.LevelID())
}

func TestSession_BeginEmptyTopic(t *testing.T) {
	s := newTestSession()
	err := s.Begin(&content.Topic{ID: "empty"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrEmptyTopic))

	err = s.Begin(nil)
	assert.True(t, errors.Is(err, content.ErrEmptyTopic))

	_, ok := s.CurrentLevel()
	assert.False(t, ok)
}

func TestSession_AllSuccesses(t *testing.T) {
	for _, n := range []int{1, 2, 5, 9} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := newTestSession()
			require.NoError(t, s.Begin(testTopic(n)))
			for i := 0; i < n; i++ {
				assert.True(t, s.CompleteCurrentLevel(true))
			}
			st := s.State()
			assert.Equal(t, n, st.Score)
			assert.True(t, st.IsOver)
			assert.Equal(t, n-1, st.LevelIndex)
		})
	}
}

func TestSession_FailuresAdvanceWithoutScore(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Begin(testTopic(3)))

	s.CompleteCurrentLevel(false)
	assert.Equal(t, State{LevelIndex: 1, Score: 0}, s.State())
	s.CompleteCurrentLevel(true)
	assert.Equal(t, State{LevelIndex: 2, Score: 1}, s.State())
	s.CompleteCurrentLevel(false)
	assert.Equal(t, State{LevelIndex: 2, Score: 1, IsOver: true}, s.State())
}

func TestSession_CompleteAfterOverIgnored(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Begin(testTopic(1)))
	require.True(t, s.CompleteCurrentLevel(true))
	assert.False(t, s.CompleteCurrentLevel(true))
	assert.Equal(t, 1, s.State().Score)
	assert.Len(t, s.Outcomes(), 1)
}

func TestSession_CompleteBeforeBeginIgnored(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.CompleteCurrentLevel(true))
	assert.Equal(t, State{}, s.State())
}

func TestSession_Restart(t *testing.T) {
	s := newTestSession()
	assert.ErrorIs(t, s.Restart(), ErrNotStarted)

	require.NoError(t, s.Begin(testTopic(2)))
	s.CompleteCurrentLevel(true)
	s.CompleteCurrentLevel(true)
	require.True(t, s.State().IsOver)

	require.NoError(t, s.Restart())
	assert.Equal(t, State{}, s.State())
	assert.Empty(t, s.Outcomes())
	assert.Equal(t, "food", s.Topic().ID)
}

func TestSession_LevelCompleterCountsOnce(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Begin(testTopic(3)))

	done := s.LevelCompleter()
	done(true)
	done(true)
	assert.Equal(t, State{LevelIndex: 1, Score: 1}, s.State())
}

func TestSession_LevelCompleterStale(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Begin(testTopic(3)))

	first := s.LevelCompleter()
	s.CompleteCurrentLevel(false)
	first(true)
	assert.Equal(t, State{LevelIndex: 1, Score: 0}, s.State())

	second := s.LevelCompleter()
	require.NoError(t, s.Restart())
	second(true)
	assert.Equal(t, State{}, s.State())
}

func TestSession_CompleteCurrentLevelCountsEveryCall(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Begin(testTopic(3)))

	assert.True(t, s.CompleteCurrentLevel(true))
	assert.True(t, s.CompleteCurrentLevel(true))
	assert.Equal(t, State{LevelIndex: 2, Score: 2}, s.State())

	done := s.LevelCompleter()
	done(false)
	done(true)
	assert.Equal(t, State{LevelIndex: 2, Score: 2, IsOver: true}, s.State())
	assert.False(t, s.CompleteCurrentLevel(true))
}

func TestSession_OnChange(t *testing.T) {
	var got []State
	s := newTestSession(WithOnChange(func(st State) { got = append(got, st) }))
	require.NoError(t, s.Begin(testTopic(2)))
	s.CompleteCurrentLevel(true)
	s.CompleteCurrentLevel(false)

	assert.Equal(t, []State{
		{},
		{LevelIndex: 1, Score: 1},
		{LevelIndex: 1, Score: 1, IsOver: true},
	}, got)
}

func TestSession_Summary(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Begin(testTopic(4)))
	s.CompleteCurrentLevel(true)
	s.CompleteCurrentLevel(false)
	s.CompleteCurrentLevel(true)
	s.CompleteCurrentLevel(true)

	sum := s.Summary()
	assert.Equal(t, "food", sum.TopicID)
	assert.Equal(t, "Food", sum.TopicName)
	assert.Equal(t, 3, sum.Score)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 75, sum.Percent())
	assert.False(t, sum.Perfect())
	assert.Equal(t, []string{"l2"}, sum.Missed())
	assert.Equal(t, map[content.LevelType]Tally{
		content.TypeMCQ:   {Solved: 2, Attempted: 2},
		content.TypeYesNo: {Solved: 1, Attempted: 2},
	}, sum.ByType())
}

func TestSummary_Empty(t *testing.T) {
	var sum Summary
	assert.Zero(t, sum.Percent())
	assert.False(t, sum.Perfect())
	assert.Empty(t, sum.Missed())
}
