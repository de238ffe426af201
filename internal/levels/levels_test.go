package levels

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/speech"
)

// recorder collects reported outcomes.
type recorder struct {
	mu    sync.Mutex
	calls []bool
}

func (r *recorder) report(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, success)
}

func (r *recorder) got() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.calls...)
}

func testOpts(extra ...Option) []Option {
	return append([]Option{
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, extra...)
}

func abcLevel() *content.MCQ {
	return &content.MCQ{
		Base:          content.Base{ID: "abc", Question: "Pick B"},
		Options:       []string{"A", "B", "C"},
		CorrectAnswer: "B",
	}
}

func TestNew_DispatchesEveryType(t *testing.T) {
	clk := clock.NewManual()
	levels := []content.Level{
		abcLevel(),
		&content.MCQImage{Base: content.Base{ID: "img"}, Options: []string{"a", "b"}, CorrectAnswer: "a"},
		&content.MCQAudio{Base: content.Base{ID: "aud"}, TextToSpeak: "물", Options: []string{"water", "rice"}, CorrectAnswer: "water"},
		&content.YesNo{Base: content.Base{ID: "yn"}, CorrectAnswer: true},
		&content.Matching{Base: content.Base{ID: "m"}, Pairs: []content.Pair{{ID: "1", Left: "물", Right: "water"}}},
		&content.MatchingImage{Base: content.Base{ID: "mi"}, Pairs: []content.ImagePair{{ID: "1", ImageURL: "water.png", Word: "물"}}},
		&content.WordPuzzle{Base: content.Base{ID: "w"}, Word: "밥"},
	}
	want := []any{&Choice{}, &Choice{}, &Audio{}, &YesNo{}, &Matching{}, &Matching{}, &WordPuzzle{}}

	for i, l := range levels {
		v, err := New(l, clk, nil, testOpts()...)
		require.NoError(t, err, l.LevelID())
		assert.IsType(t, want[i], v, l.LevelID())
		assert.Equal(t, l, v.Level())
		assert.Equal(t, Pending, v.Result())
	}
}

func TestNew_NilLevel(t *testing.T) {
	tests := []struct {
		name  string
		level content.Level
	}{
		{"untyped", nil},
		{"mcq", (*content.MCQ)(nil)},
		{"audio", (*content.MCQAudio)(nil)},
		{"matching image", (*content.MatchingImage)(nil)},
		{"word", (*content.WordPuzzle)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(tt.level, clock.NewManual(), nil)
			assert.Nil(t, v)
			assert.True(t, errors.Is(err, content.ErrUnknownLevelType))
		})
	}
}

func TestChoice_ConcreteExample(t *testing.T) {
	tests := []struct {
		pick string
		want bool
	}{
		{"A", false},
		{"B", true},
		{"C", false},
	}
	for _, tt := range tests {
		t.Run(tt.pick, func(t *testing.T) {
			clk := clock.NewManual()
			rec := &recorder{}
			c := NewChoice(abcLevel(), abcLevel().Options, "B", clk, rec.report, testOpts()...)

			require.True(t, c.Pick(tt.pick))
			assert.Empty(t, rec.got(), "report waits for the feedback pause")

			clk.Advance(1500 * time.Millisecond)
			assert.Equal(t, []bool{tt.want}, rec.got())

			assert.False(t, c.Pick("B"))
			clk.RunAll()
			assert.Len(t, rec.got(), 1)

			sel, ok := c.Selected()
			assert.True(t, ok)
			assert.Equal(t, tt.pick, sel)
		})
	}
}

func TestChoice_ShufflesOptions(t *testing.T) {
	c := NewChoice(abcLevel(), abcLevel().Options, "B", clock.NewManual(), nil, testOpts()...)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, c.Options())
}

func TestChoice_IgnoresUnknownOption(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	c := NewChoice(abcLevel(), abcLevel().Options, "B", clk, rec.report, testOpts()...)
	assert.False(t, c.Pick("Z"))
	clk.RunAll()
	assert.Empty(t, rec.got())
	assert.Equal(t, Pending, c.Result())
}

func TestChoice_CloseCancelsReport(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	c := NewChoice(abcLevel(), abcLevel().Options, "B", clk, rec.report, testOpts()...)
	require.True(t, c.Pick("B"))
	c.Close()
	clk.RunAll()
	assert.Empty(t, rec.got())
	assert.Equal(t, Succeeded, c.Result())
}

func TestYesNo(t *testing.T) {
	for _, answer := range []bool{true, false} {
		clk := clock.NewManual()
		rec := &recorder{}
		y := NewYesNo(&content.YesNo{Base: content.Base{ID: "yn"}, CorrectAnswer: true}, clk, rec.report, testOpts()...)

		require.True(t, y.Answer(answer))
		assert.False(t, y.Answer(!answer))
		clk.Advance(1200 * time.Millisecond)
		assert.Equal(t, []bool{answer}, rec.got())

		got, ok := y.Answered()
		assert.True(t, ok)
		assert.Equal(t, answer, got)
	}
}

// fakeSpeaker blocks until cancelled or released.
type fakeSpeaker struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (f *fakeSpeaker) Speak(ctx context.Context, _ string, _ language.Tag, cb speech.Callbacks) error {
	if f.err != nil {
		if cb.OnError != nil {
			cb.OnError(f.err)
		}
		return f.err
	}
	f.started <- struct{}{}
	select {
	case <-ctx.Done():
	case <-f.release:
	}
	return nil
}

func audioLevel(lang string) *content.MCQAudio {
	return &content.MCQAudio{
		Base:          content.Base{ID: "aud", Question: "What did you hear?"},
		TextToSpeak:   "물 주세요",
		Options:       []string{"Water please", "Rice please"},
		CorrectAnswer: "Water please",
		Language:      lang,
	}
}

func TestAudio_Language(t *testing.T) {
	a := NewAudio(audioLevel(""), clock.NewManual(), nil, testOpts()...)
	assert.Equal(t, speech.Korean, a.Language())

	a = NewAudio(audioLevel("en-GB"), clock.NewManual(), nil, testOpts()...)
	assert.Equal(t, language.MustParse("en-GB"), a.Language())
}

func TestAudio_PickStopsSpeech(t *testing.T) {
	sp := newFakeSpeaker()
	clk := clock.NewManual()
	rec := &recorder{}
	a := NewAudio(audioLevel(""), clk, rec.report, testOpts(WithSpeaker(sp))...)

	done := make(chan error, 1)
	go func() { done <- a.Play(context.Background()) }()
	<-sp.started
	assert.True(t, a.Playing())

	require.True(t, a.Pick("Water please"))
	require.NoError(t, <-done)
	assert.False(t, a.Playing())

	clk.Advance(1500 * time.Millisecond)
	assert.Equal(t, []bool{true}, rec.got())

	require.NoError(t, a.Play(context.Background()), "no speech once decided")
}

func TestAudio_PlayToggles(t *testing.T) {
	sp := newFakeSpeaker()
	a := NewAudio(audioLevel(""), clock.NewManual(), nil, testOpts(WithSpeaker(sp))...)

	done := make(chan error, 1)
	go func() { done <- a.Play(context.Background()) }()
	<-sp.started

	require.NoError(t, a.Play(context.Background()))
	require.NoError(t, <-done)
	assert.False(t, a.Playing())
}

func TestAudio_SpeechFailureKeepsLevelPlayable(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	a := NewAudio(audioLevel(""), clk, rec.report, testOpts()...)

	err := a.Play(context.Background())
	assert.ErrorIs(t, err, speech.ErrUnavailable)
	assert.False(t, a.Playing())

	require.True(t, a.Pick("Rice please"))
	clk.RunAll()
	assert.Equal(t, []bool{false}, rec.got())
}

func matchingLevel() *content.Matching {
	return &content.Matching{
		Base: content.Base{ID: "m", Question: "Match"},
		Pairs: []content.Pair{
			{ID: "water", Left: "물", Right: "water"},
			{ID: "rice", Left: "밥", Right: "rice"},
			{ID: "tea", Left: "차", Right: "tea"},
		},
	}
}

func newMatching(clk clock.Scheduler, rec *recorder) *Matching {
	return NewMatching(matchingLevel(), textItems(matchingLevel().Pairs), clk, rec.report, testOpts()...)
}

func TestMatching_Columns(t *testing.T) {
	m := newMatching(clock.NewManual(), &recorder{})
	var left, right []string
	for _, it := range m.Left() {
		left = append(left, it.Text)
	}
	for _, it := range m.Right() {
		right = append(right, it.Text)
	}
	assert.ElementsMatch(t, []string{"물", "밥", "차"}, left)
	assert.ElementsMatch(t, []string{"water", "rice", "tea"}, right)
}

func TestMatching_CompletesWhenAllMatched(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	m := newMatching(clk, rec)

	assert.True(t, m.Match("water", "water"))
	assert.True(t, m.Match("rice", "rice"))
	assert.Equal(t, Pending, m.Result())
	assert.True(t, m.Match("tea", "tea"))
	assert.Equal(t, Succeeded, m.Result())

	matched, total := m.Progress()
	assert.Equal(t, 3, matched)
	assert.Equal(t, 3, total)

	assert.Empty(t, rec.got())
	clk.Advance(time.Second)
	assert.Equal(t, []bool{true}, rec.got())
}

func TestMatching_MismatchChangesNothing(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	m := newMatching(clk, rec)

	require.True(t, m.Match("water", "water"))
	assert.False(t, m.Match("rice", "tea"))

	matched, _ := m.Progress()
	assert.Equal(t, 1, matched)
	assert.False(t, m.IsMatched("rice"))
	assert.False(t, m.IsMatched("tea"))
	_, armed := m.Armed()
	assert.False(t, armed, "mismatch disarms")
	assert.True(t, m.Wrong())

	clk.Advance(500 * time.Millisecond)
	assert.False(t, m.Wrong())
	assert.Empty(t, rec.got())
}

func TestMatching_RetryAfterMismatch(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	m := newMatching(clk, rec)

	for i := 0; i < 5; i++ {
		assert.False(t, m.Match("water", "rice"))
	}
	assert.True(t, m.Match("water", "water"))
	assert.True(t, m.Match("rice", "rice"))
	assert.True(t, m.Match("tea", "tea"))
	clk.RunAll()
	assert.Equal(t, []bool{true}, rec.got())
}

func TestMatching_MatchedItemsInert(t *testing.T) {
	m := newMatching(clock.NewManual(), &recorder{})
	require.True(t, m.Match("water", "water"))

	assert.False(t, m.SelectLeft("water"))
	require.True(t, m.SelectLeft("rice"))
	assert.False(t, m.SelectRight("water"))
	id, ok := m.Armed()
	assert.True(t, ok, "selecting a matched right item is ignored")
	assert.Equal(t, "rice", id)
}

func TestMatching_RightNeedsArmedLeft(t *testing.T) {
	m := newMatching(clock.NewManual(), &recorder{})
	assert.False(t, m.SelectRight("water"))
	assert.False(t, m.Wrong())
}

func TestMatching_SelectLeftToggles(t *testing.T) {
	m := newMatching(clock.NewManual(), &recorder{})
	require.True(t, m.SelectLeft("rice"))
	require.True(t, m.SelectLeft("rice"))
	_, ok := m.Armed()
	assert.False(t, ok)

	require.True(t, m.SelectLeft("rice"))
	require.True(t, m.SelectLeft("tea"))
	id, _ := m.Armed()
	assert.Equal(t, "tea", id)
}

func TestMatching_WrongSignalOutlivesEarlierTimer(t *testing.T) {
	clk := clock.NewManual()
	m := newMatching(clk, &recorder{})

	assert.False(t, m.Match("water", "rice"))
	clk.Advance(400 * time.Millisecond)
	assert.False(t, m.Match("water", "tea"))
	clk.Advance(100 * time.Millisecond)
	assert.True(t, m.Wrong())
	clk.Advance(400 * time.Millisecond)
	assert.False(t, m.Wrong())
}

func TestMatchingImage_Items(t *testing.T) {
	pairs := imageItems([]content.ImagePair{{ID: "1", ImageURL: "water.png", Word: "물"}})
	assert.Equal(t, []ItemPair{{
		Left:  Item{PairID: "1", ImageURL: "water.png"},
		Right: Item{PairID: "1", Text: "물"},
	}}, pairs)
}

func newWord(word string, clk clock.Scheduler, rec *recorder) *WordPuzzle {
	return NewWordPuzzle(&content.WordPuzzle{Base: content.Base{ID: "w"}, Word: word}, clk, rec.report, testOpts()...)
}

// spell places tiles so the slots read letters, left to right.
func spell(t *testing.T, w *WordPuzzle, letters ...string) {
	t.Helper()
	for _, l := range letters {
		placed := false
		for _, tile := range w.Bank() {
			if tile.Letter == l {
				require.True(t, w.PlaceLetter(tile.ID))
				placed = true
				break
			}
		}
		require.True(t, placed, "letter %s not in bank", l)
	}
}

func TestWordPuzzle_Bank(t *testing.T) {
	w := newWord("tea", clock.NewManual(), &recorder{})
	var letters []string
	for _, tile := range w.Bank() {
		letters = append(letters, tile.Letter)
	}
	assert.ElementsMatch(t, []string{"T", "E", "A"}, letters)
	assert.Len(t, w.Slots(), 3)
	for _, s := range w.Slots() {
		assert.False(t, s.Filled)
	}
}

func TestWordPuzzle_CorrectSpelling(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	w := newWord("Tea", clk, rec)

	spell(t, w, "T", "E", "A")
	assert.Equal(t, WordSolved, w.Status())
	assert.Equal(t, Succeeded, w.Result())
	assert.Empty(t, w.Bank())

	clk.Advance(1500 * time.Millisecond)
	assert.Equal(t, []bool{true}, rec.got())

	assert.False(t, w.ReturnLetter(0))
	clk.RunAll()
	assert.Len(t, rec.got(), 1)
}

func TestWordPuzzle_WrongSpellingResets(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	w := newWord("tea", clk, rec)

	spell(t, w, "E", "A", "T")
	assert.Equal(t, WordWrong, w.Status())
	assert.Equal(t, Pending, w.Result())

	bank := w.Bank()
	assert.False(t, w.ReturnLetter(0), "row is frozen while wrong")

	clk.Advance(time.Second)
	assert.Equal(t, WordPlaying, w.Status())
	assert.Len(t, w.Bank(), 3)
	assert.Empty(t, bank)
	for _, s := range w.Slots() {
		assert.False(t, s.Filled)
	}
	assert.Empty(t, rec.got())

	spell(t, w, "T", "E", "A")
	clk.RunAll()
	assert.Equal(t, []bool{true}, rec.got())
}

func TestWordPuzzle_RepeatedLetters(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	w := newWord("coffee", clk, rec)

	ids := map[int]bool{}
	for _, tile := range w.Bank() {
		ids[tile.ID] = true
	}
	assert.Len(t, ids, 6)

	spell(t, w, "C", "O", "F", "F", "E", "E")
	clk.RunAll()
	assert.Equal(t, []bool{true}, rec.got())
}

func TestWordPuzzle_PlaceAtAndReturn(t *testing.T) {
	w := newWord("tea", clock.NewManual(), &recorder{})
	tile := w.Bank()[0]

	require.True(t, w.PlaceLetterAt(tile.ID, 2))
	assert.False(t, w.PlaceLetterAt(tile.ID, 1), "tile already placed")
	assert.False(t, w.PlaceLetterAt(w.Bank()[0].ID, 2), "slot taken")
	assert.False(t, w.PlaceLetterAt(w.Bank()[0].ID, 3), "slot out of range")
	assert.Equal(t, Slot{Tile: tile, Filled: true}, w.Slots()[2])
	assert.Len(t, w.Bank(), 2)

	require.True(t, w.ReturnLetter(2))
	assert.False(t, w.ReturnLetter(2))
	assert.Len(t, w.Bank(), 3)
}

func TestWordPuzzle_HangulAndSpaces(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	w := newWord("김 치", clk, rec)
	assert.Len(t, w.Slots(), 2)

	spell(t, w, "김", "치")
	clk.RunAll()
	assert.Equal(t, []bool{true}, rec.got())
}

func TestSplitLetters(t *testing.T) {
	assert.Equal(t, []string{"T", "E", "A"}, splitLetters("tea"))
	assert.Equal(t, []string{"I", "C", "E", "T", "E", "A"}, splitLetters("ice tea"))
	assert.Empty(t, splitLetters(""))
}
