package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	m := NewManual()

	var order []string
	m.After(30*time.Millisecond, func() { order = append(order, "c") })
	m.After(10*time.Millisecond, func() { order = append(order, "a") })
	m.After(20*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(50 * time.Millisecond)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManualDoesNotFireBeforeDeadline(t *testing.T) {
	m := NewManual()

	fired := false
	m.After(100*time.Millisecond, func() { fired = true })

	m.Advance(99 * time.Millisecond)
	assert.False(t, fired)
	assert.Equal(t, 1, m.Pending())

	m.Advance(1 * time.Millisecond)
	assert.True(t, fired)
}

func TestManualCancel(t *testing.T) {
	m := NewManual()

	fired := false
	cancel := m.After(10*time.Millisecond, func() { fired = true })
	cancel()

	m.Advance(time.Second)
	assert.False(t, fired)

	// Cancelling twice is a no-op.
	cancel()
}

func TestManualChainedTimersFireWithinWindow(t *testing.T) {
	m := NewManual()

	var hops int
	var hop func()
	hop = func() {
		hops++
		if hops < 3 {
			m.After(10*time.Millisecond, hop)
		}
	}
	m.After(10*time.Millisecond, hop)

	m.Advance(30 * time.Millisecond)
	assert.Equal(t, 3, hops)
}

func TestManualChainedTimerBeyondWindowStaysPending(t *testing.T) {
	m := NewManual()

	var hops int
	m.After(10*time.Millisecond, func() {
		hops++
		m.After(10*time.Millisecond, func() { hops++ })
	})

	m.Advance(15 * time.Millisecond)
	assert.Equal(t, 1, hops)
	assert.Equal(t, 1, m.Pending())

	m.Advance(5 * time.Millisecond)
	assert.Equal(t, 2, hops)
}

func TestWallClockAfter(t *testing.T) {
	s := New()

	done := make(chan struct{})
	s.After(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "timer did not fire")
	}
}

func TestWallClockCancel(t *testing.T) {
	s := New()

	fired := make(chan struct{}, 1)
	cancel := s.After(20*time.Millisecond, func() { fired <- struct{}{} })
	cancel()

	select {
	case <-fired:
		require.Fail(t, "cancelled timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}
