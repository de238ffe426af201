package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	m.AfterFunc(time.Second, func() { got = append(got, "a") })
	m.AfterFunc(2*time.Second, func() { got = append(got, "c") })

	m.Advance(500 * time.Millisecond)
	assert.Empty(t, got)

	m.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 2500*time.Millisecond, m.Now())
	assert.Zero(t, m.Pending())
}

func TestManual_Stop(t *testing.T) {
	m := NewManual()
	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	m.Advance(time.Minute)
	assert.False(t, fired)
}

func TestManual_StopAfterFire(t *testing.T) {
	m := NewManual()
	timer := m.AfterFunc(time.Second, func() {})
	m.Advance(time.Second)
	assert.False(t, timer.Stop())
}

func TestManual_ChainedCallbacksWithinWindow(t *testing.T) {
	m := NewManual()
	var got []time.Duration
	m.AfterFunc(time.Second, func() {
		got = append(got, m.Now())
		m.AfterFunc(time.Second, func() { got = append(got, m.Now()) })
	})

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, []time.Duration{time.Second}, got)

	m.Advance(time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, got)
}

func TestManual_RunAll(t *testing.T) {
	m := NewManual()
	count := 0
	var schedule func()
	schedule = func() {
		count++
		if count < 3 {
			m.AfterFunc(time.Second, schedule)
		}
	}
	m.AfterFunc(time.Second, schedule)

	m.RunAll()
	assert.Equal(t, 3, count)
	assert.Equal(t, 3*time.Second, m.Now())
}

func TestGroup_StopAll(t *testing.T) {
	m := NewManual()
	g := NewGroup(m)
	fired := 0
	g.AfterFunc(time.Second, func() { fired++ })
	g.AfterFunc(2*time.Second, func() { fired++ })

	g.StopAll()
	m.Advance(time.Minute)
	assert.Zero(t, fired)
}
