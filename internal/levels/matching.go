package levels

import (
	"slices"

	"github.com/abhisek/parley/internal/clock"
	"github.com/abhisek/parley/internal/content"
	"github.com/abhisek/parley/internal/shuffle"
)

// Item is one tile in a matching column. Image items carry an ImageURL and
// no Text.
type Item struct {
	PairID   string
	Text     string
	ImageURL string
}

// ItemPair is a left/right couple sharing a pair id.
type ItemPair struct {
	Left, Right Item
}

func textItems(pairs []content.Pair) []ItemPair {
	out := make([]ItemPair, len(pairs))
	for i, p := range pairs {
		out[i] = ItemPair{
			Left:  Item{PairID: p.ID, Text: p.Left},
			Right: Item{PairID: p.ID, Text: p.Right},
		}
	}
	return out
}

func imageItems(pairs []content.ImagePair) []ItemPair {
	out := make([]ItemPair, len(pairs))
	for i, p := range pairs {
		out[i] = ItemPair{
			Left:  Item{PairID: p.ID, ImageURL: p.ImageURL},
			Right: Item{PairID: p.ID, Text: p.Word},
		}
	}
	return out
}

// Matching validates matching levels. A left item is armed first, then a
// right item is tried against it. Mismatches cost nothing and the level
// only ends once every pair is matched.
type Matching struct {
	base
	left, right []Item
	armed       string
	matched     map[string]bool
	wrong       bool
	wrongSeq    int
}

var _ Validator = (*Matching)(nil)

// NewMatching creates a validator over pairs, shuffling both columns
// independently.
func NewMatching(level content.Level, pairs []ItemPair, sched clock.Scheduler, report Reporter, opts ...Option) *Matching {
	m := &Matching{matched: make(map[string]bool, len(pairs))}
	m.setup(level, sched, report, opts)

	left := make([]Item, len(pairs))
	right := make([]Item, len(pairs))
	for i, p := range pairs {
		left[i], right[i] = p.Left, p.Right
	}
	m.left = shuffle.With(m.opts.rng, left)
	m.right = shuffle.With(m.opts.rng, right)
	return m
}

func (m *Matching) Left() []Item  { return slices.Clone(m.left) }
func (m *Matching) Right() []Item { return slices.Clone(m.right) }

// SelectLeft arms the left item with pairID. Selecting the armed item again
// disarms it. Matched items are inert.
func (m *Matching) SelectLeft(pairID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result != Pending || m.matched[pairID] || !hasItem(m.left, pairID) {
		return false
	}
	if m.armed == pairID {
		m.armed = ""
	} else {
		m.armed = pairID
	}
	return true
}

// SelectRight tries the right item with pairID against the armed left item
// and reports whether they matched. A mismatch disarms the left item and
// raises the wrong signal briefly.
func (m *Matching) SelectRight(pairID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result != Pending || m.armed == "" || m.matched[pairID] || !hasItem(m.right, pairID) {
		return false
	}

	if m.armed != pairID {
		m.opts.logger.Debug("mismatch", "level", m.level.LevelID(), "left", m.armed, "right", pairID)
		m.armed = ""
		m.flagWrong()
		return false
	}

	m.matched[pairID] = true
	m.armed = ""
	m.wrong = false
	if len(m.matched) == len(m.left) {
		m.finish(true, m.opts.timings.MatchComplete)
	}
	return true
}

// Match arms leftID and tries rightID in one step.
func (m *Matching) Match(leftID, rightID string) bool {
	m.mu.Lock()
	armed := m.armed
	m.mu.Unlock()
	if armed != leftID && !m.SelectLeft(leftID) {
		return false
	}
	return m.SelectRight(rightID)
}

func (m *Matching) flagWrong() {
	m.wrong = true
	m.wrongSeq++
	seq := m.wrongSeq
	m.timers.AfterFunc(m.opts.timings.Mismatch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.wrongSeq == seq {
			m.wrong = false
		}
	})
}

// Armed returns the armed left pair id.
func (m *Matching) Armed() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed, m.armed != ""
}

// IsMatched reports whether the pair with pairID is matched.
func (m *Matching) IsMatched(pairID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matched[pairID]
}

// Progress returns matched and total pair counts.
func (m *Matching) Progress() (matched, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matched), len(m.left)
}

// Wrong reports whether the mismatch signal is showing.
func (m *Matching) Wrong() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wrong
}

func hasItem(items []Item, pairID string) bool {
	return slices.ContainsFunc(items, func(it Item) bool { return it.PairID == pairID })
}
