package chat

import (
	"math/rand"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ragfloe/backend/pkg/sched"
)

// Manager hands out one session per project, capped by an LRU so an idle
// process cannot accumulate consoles without bound. Evicted sessions have
// their timers cancelled before they are dropped.
type Manager struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]

	cfg     Config
	sched   sched.Scheduler
	rng     *rand.Rand
	onQuery func(projectID string)
}

func NewManager(maxSessions int, cfg Config, s sched.Scheduler, rng *rand.Rand, onQuery func(projectID string)) (*Manager, error) {
	cache, err := lru.NewWithEvict(maxSessions, func(_ string, sess *Session) {
		sess.Close()
	})
	if err != nil {
		return nil, err
	}
	return &Manager{
		sessions: cache,
		cfg:      cfg,
		sched:    s,
		rng:      rng,
		onQuery:  onQuery,
	}, nil
}

// Get returns the project's session, creating and seeding it on first use.
func (m *Manager) Get(projectID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions.Get(projectID); ok {
		return sess
	}

	// Each session gets its own random stream so consoles do not contend
	// on a shared source.
	sess := NewSession(projectID, m.cfg, m.sched, rand.New(rand.NewSource(m.rng.Int63())))
	turns, sources := SeedTranscript()
	sess.Seed(turns, sources)
	if m.onQuery != nil {
		sess.SetQueryHook(m.onQuery)
	}
	m.sessions.Add(projectID, sess)
	return sess
}
