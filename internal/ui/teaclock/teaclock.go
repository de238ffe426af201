// Package teaclock adapts clock.Scheduler to the Bubble Tea update loop.
// Timers become tea.Tick commands and their callbacks run inside Update,
// so engines driven by this clock never race with rendering.
package teaclock

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/clock"
)

var nextClockID atomic.Uint64

// FireMsg is delivered when a timer is due. Pass it to Clock.Handle.
type FireMsg struct {
	Clock uint64
	Timer int
}

// Clock is a clock.Scheduler for one screen. AfterFunc only records the
// timer; Cmd turns newly recorded timers into tea.Tick commands.
type Clock struct {
	id uint64

	mu     sync.Mutex
	seq    int
	timers map[int]*timer
	queued []*timer
}

var _ clock.Scheduler = (*Clock)(nil)

type timer struct {
	clock *Clock
	id    int
	delay time.Duration
	f     func()
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if _, ok := t.clock.timers[t.id]; !ok {
		return false
	}
	delete(t.clock.timers, t.id)
	return true
}

// New creates an empty Clock.
func New() *Clock {
	return &Clock{
		id:     nextClockID.Add(1),
		timers: make(map[int]*timer),
	}
}

func (c *Clock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{clock: c, id: c.seq, delay: d, f: f}
	c.timers[t.id] = t
	c.queued = append(c.queued, t)
	return t
}

// Cmd returns a command that ticks every timer recorded since the last
// call, or nil if there are none.
func (c *Clock) Cmd() tea.Cmd {
	c.mu.Lock()
	queued := c.queued
	c.queued = nil
	c.mu.Unlock()

	var cmds []tea.Cmd
	for _, t := range queued {
		msg := FireMsg{Clock: c.id, Timer: t.id}
		cmds = append(cmds, tea.Tick(t.delay, func(time.Time) tea.Msg { return msg }))
	}
	return tea.Batch(cmds...)
}

// Handle runs the callback for a FireMsg addressed to this clock. It
// reports whether msg was one, and returns ticks for any timers the
// callback scheduled.
func (c *Clock) Handle(msg tea.Msg) (bool, tea.Cmd) {
	fm, ok := msg.(FireMsg)
	if !ok || fm.Clock != c.id {
		return false, nil
	}
	c.fire(fm.Timer)
	return true, c.Cmd()
}

func (c *Clock) fire(id int) {
	c.mu.Lock()
	t, ok := c.timers[id]
	if ok {
		delete(c.timers, id)
	}
	c.mu.Unlock()
	if ok {
		t.f()
	}
}

// Flush runs every pending timer immediately, shortest delay first,
// including timers scheduled by the callbacks themselves.
func (c *Clock) Flush() {
	for {
		c.mu.Lock()
		if len(c.timers) == 0 {
			c.queued = nil
			c.mu.Unlock()
			return
		}
		next := slices.MinFunc(mapValues(c.timers), func(a, b *timer) int {
			if a.delay != b.delay {
				return int(a.delay - b.delay)
			}
			return a.id - b.id
		})
		c.mu.Unlock()
		c.fire(next.id)
	}
}

// StopAll cancels every pending timer. Ticks already in flight are
// ignored when they arrive.
func (c *Clock) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.timers)
	c.queued = nil
}

// Pending returns the number of timers that have not fired.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func mapValues(m map[int]*timer) []*timer {
	out := make([]*timer, 0, len(m))
	for _, t := range m {
		out = append(out, t)
	}
	return out
}
