package wizard

import (
	"fmt"
	"sync"
	"time"

	"github.com/ragfloe/backend/internal/storage"
	"github.com/ragfloe/backend/pkg/sched"
)

// Manager tracks in-flight wizards by id. Each wizard is a single-user
// draft; there is no cross-wizard state.
type Manager struct {
	mu      sync.Mutex
	wizards map[string]*Wizard

	projects    storage.ProjectRepository
	sched       sched.Scheduler
	createDelay time.Duration
}

func NewManager(projects storage.ProjectRepository, s sched.Scheduler, createDelay time.Duration) *Manager {
	return &Manager{
		wizards:     make(map[string]*Wizard),
		projects:    projects,
		sched:       s,
		createDelay: createDelay,
	}
}

func (m *Manager) Start() *Wizard {
	w := New(m.projects, m.sched, m.createDelay)

	m.mu.Lock()
	m.wizards[w.ID()] = w
	m.mu.Unlock()

	return w
}

func (m *Manager) Get(id string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wizards[id]
	if !ok {
		return nil, fmt.Errorf("wizard not found: %s", id)
	}
	return w, nil
}

// Abandon drops the wizard and cancels its timers.
func (m *Manager) Abandon(id string) {
	m.mu.Lock()
	w, ok := m.wizards[id]
	delete(m.wizards, id)
	m.mu.Unlock()

	if ok {
		w.Abandon()
	}
}
