package sched

import (
	"sort"
	"sync"
	"time"
)

// Scheduler is the single source of simulated delay in the control plane.
// Every timer-driven behavior (chat latency, reveal loop, document
// processing, project creation) goes through After so tests can substitute
// Manual and advance time deterministically.
type Scheduler interface {
	// After runs fn once after d. The returned cancel stops fn from running
	// if it has not fired yet; calling it after the fire is a no-op.
	After(d time.Duration, fn func()) (cancel func())
}

type wallClock struct{}

// New returns a Scheduler backed by time.AfterFunc.
func New() Scheduler {
	return wallClock{}
}

func (wallClock) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Manual is a test scheduler. Callbacks fire synchronously from Advance in
// deadline order.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int
	pending []*manualTimer
}

type manualTimer struct {
	id       int
	deadline time.Duration
	fn       func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t := &manualTimer{id: m.nextID, deadline: m.now + d, fn: fn}
	m.pending = append(m.pending, t)

	id := t.id
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, p := range m.pending {
			if p.id == id {
				m.pending = append(m.pending[:i], m.pending[i+1:]...)
				return
			}
		}
	}
}

// Advance moves the virtual clock forward, firing every timer whose deadline
// falls inside the window. Callbacks may schedule further timers; those fire
// too if they land within the same window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		sort.SliceStable(m.pending, func(i, j int) bool {
			return m.pending[i].deadline < m.pending[j].deadline
		})

		var next *manualTimer
		if len(m.pending) > 0 && m.pending[0].deadline <= target {
			next = m.pending[0]
			m.pending = m.pending[1:]
			m.now = next.deadline
		} else {
			m.now = target
		}
		m.mu.Unlock()

		if next == nil {
			return
		}
		next.fn()
	}
}

// Pending reports how many timers are armed.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
