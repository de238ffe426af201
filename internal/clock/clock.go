// Package clock abstracts delayed execution so engines can be driven by the
// TUI event loop (see ui/teaclock) and by a manual clock in tests.
package clock

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Group tracks timers scheduled on behalf of one owner so they can all be
// cancelled together.
type Group struct {
	sched  Scheduler
	timers []Timer
}

// NewGroup creates a Group backed by sched.
func NewGroup(sched Scheduler) *Group {
	return &Group{sched: sched}
}

// AfterFunc schedules f and remembers the timer.
func (g *Group) AfterFunc(d time.Duration, f func()) Timer {
	t := g.sched.AfterFunc(d, f)
	g.timers = append(g.timers, t)
	return t
}

// StopAll cancels every timer scheduled through the group.
func (g *Group) StopAll() {
	for _, t := range g.timers {
		t.Stop()
	}
	g.timers = nil
}
