package levels

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/shuffle"
)

// Tile is one letter of the word. IDs keep repeated letters distinct.
type Tile struct {
	ID     int
	Letter string
}

// Slot is one position of the answer row.
type Slot struct {
	Tile   Tile
	Filled bool
}

// WordStatus is the state of the answer row.
type WordStatus int

const (
	WordPlaying WordStatus = iota
	WordSolved
	WordWrong // Full but misspelled; cleared after a pause
)

const emptySlot = -1

// WordPuzzle validates word puzzles: letters move from a shuffled bank
// into slots, and every time the slots fill up the spelling is checked.
type WordPuzzle struct {
	base
	target  string
	letters []string // by tile id
	bank    []Tile   // presentation order, fixed
	slots   []int    // tile id or emptySlot
	placed  map[int]bool
	status  WordStatus
}

var _ Validator = (*WordPuzzle)(nil)

func NewWordPuzzle(level *content.WordPuzzle, sched clock.Scheduler, report Reporter, opts ...Option) *WordPuzzle {
	letters := splitLetters(level.Word)
	w := &WordPuzzle{
		target:  cases.Fold().String(strings.Join(letters, "")),
		letters: letters,
		slots:   make([]int, len(letters)),
		placed:  make(map[int]bool, len(letters)),
	}
	w.setup(level, sched, report, opts)

	tiles := make([]Tile, len(letters))
	for i, l := range letters {
		tiles[i] = Tile{ID: i, Letter: l}
		w.slots[i] = emptySlot
	}
	w.bank = shuffle.With(w.opts.rng, tiles)
	return w
}

// splitLetters upper-cases word and splits it into letters, dropping
// whitespace.
func splitLetters(word string) []string {
	upper := cases.Upper(language.Und).String(word)
	var out []string
	for _, r := range upper {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, string(r))
	}
	return out
}

// Bank returns the tiles not yet placed, in presentation order.
func (w *WordPuzzle) Bank() []Tile {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Tile, 0, len(w.bank))
	for _, t := range w.bank {
		if !w.placed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Slots returns the answer row.
func (w *WordPuzzle) Slots() []Slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Slot, len(w.slots))
	for i, id := range w.slots {
		if id != emptySlot {
			out[i] = Slot{Tile: Tile{ID: id, Letter: w.letters[id]}, Filled: true}
		}
	}
	return out
}

func (w *WordPuzzle) Status() WordStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// PlaceLetter moves a bank tile into the first empty slot.
func (w *WordPuzzle) PlaceLetter(tileID int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, id := range w.slots {
		if id == emptySlot {
			return w.place(tileID, i)
		}
	}
	return false
}

// PlaceLetterAt moves a bank tile into an empty slot.
func (w *WordPuzzle) PlaceLetterAt(tileID, slot int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.place(tileID, slot)
}

// ReturnLetter sends the tile in slot back to the bank.
func (w *WordPuzzle) ReturnLetter(slot int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status != WordPlaying || slot < 0 || slot >= len(w.slots) || w.slots[slot] == emptySlot {
		return false
	}
	delete(w.placed, w.slots[slot])
	w.slots[slot] = emptySlot
	return true
}

func (w *WordPuzzle) place(tileID, slot int) bool {
	if w.status != WordPlaying ||
		tileID < 0 || tileID >= len(w.letters) || w.placed[tileID] ||
		slot < 0 || slot >= len(w.slots) || w.slots[slot] != emptySlot {
		return false
	}
	w.slots[slot] = tileID
	w.placed[tileID] = true
	if len(w.placed) == len(w.slots) {
		w.check()
	}
	return true
}

// check runs with every slot filled.
func (w *WordPuzzle) check() {
	var b strings.Builder
	for _, id := range w.slots {
		b.WriteString(w.letters[id])
	}
	guess := b.String()

	if cases.Fold().String(guess) == w.target {
		w.status = WordSolved
		w.finish(true, w.opts.timings.WordSuccess)
		return
	}

	w.opts.logger.Debug("word misspelled", "level", w.level.LevelID(), "guess", guess)
	w.status = WordWrong
	w.timers.AfterFunc(w.opts.timings.WordReset, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.status != WordWrong {
			return
		}
		for i := range w.slots {
			w.slots[i] = emptySlot
		}
		clear(w.placed)
		w.status = WordPlaying
	})
}
