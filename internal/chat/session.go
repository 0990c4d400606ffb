package chat

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/pkg/sched"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAwaiting  Phase = "awaiting_answer"
	PhaseRevealing Phase = "revealing"
)

var (
	ErrEmptyQuery = errors.New("query is empty")
	// ErrBusy rejects a submission while a previous answer is still being
	// generated; one outstanding assistant turn per session.
	ErrBusy = errors.New("a response is already in flight")
)

type Config struct {
	AnswerDelay     time.Duration
	RevealInterval  time.Duration
	RevealChunkSize int
}

type EventType string

const (
	EventTurn     EventType = "turn"
	EventChunk    EventType = "chunk"
	EventComplete EventType = "complete"
	EventCleared  EventType = "cleared"
)

// Event mirrors a transcript mutation for streaming transports.
type Event struct {
	Type   EventType    `json:"type"`
	TurnID string       `json:"turn_id,omitempty"`
	Text   string       `json:"text,omitempty"`
	Turn   *models.Turn `json:"turn,omitempty"`
}

// Session holds one project's test-console transcript. Answers come from a
// fixed pool and are revealed in fixed-size character chunks on a timer; no
// model is ever called.
type Session struct {
	mu sync.Mutex

	projectID     string
	phase         Phase
	transcript    []models.Turn
	activeSources []models.Source

	// epoch fences timer callbacks: Clear bumps it, and any callback armed
	// under an older epoch becomes a no-op.
	epoch         int
	cancelPending func()

	cfg      Config
	sched    sched.Scheduler
	rng      *rand.Rand
	listener func(Event)
	onQuery  func(projectID string)
}

func NewSession(projectID string, cfg Config, s sched.Scheduler, rng *rand.Rand) *Session {
	if cfg.RevealChunkSize <= 0 {
		cfg.RevealChunkSize = 3
	}
	return &Session{
		projectID: projectID,
		phase:     PhaseIdle,
		cfg:       cfg,
		sched:     s,
		rng:       rng,
	}
}

// SetListener registers the single streaming consumer. Sessions are
// per-tab; a second tab gets its own session, so one listener is enough.
func (s *Session) SetListener(fn func(Event)) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// SetQueryHook is called once per accepted submission.
func (s *Session) SetQueryHook(fn func(projectID string)) {
	s.mu.Lock()
	s.onQuery = fn
	s.mu.Unlock()
}

// Seed preloads a canned exchange so the console is not empty on first
// open. Only valid before any submission.
func (s *Session) Seed(turns []models.Turn, sources []models.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.transcript) > 0 {
		return
	}
	s.transcript = append(s.transcript, turns...)
	s.activeSources = append(s.activeSources, sources...)
}

// SubmitQuery appends the user turn immediately and schedules the assistant
// turn. Empty input and submissions while a response is in flight are
// rejected without touching the transcript.
func (s *Session) SubmitQuery(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	if s.phase != PhaseIdle {
		s.mu.Unlock()
		return ErrBusy
	}

	userTurn := models.Turn{
		ID:   uuid.New().String(),
		Role: models.RoleUser,
		Text: text,
	}
	s.transcript = append(s.transcript, userTurn)
	s.phase = PhaseAwaiting

	answer := answerPool[s.rng.Intn(len(answerPool))]
	sources := s.synthesizeSources()
	latency := s.latencyLabel()

	epoch := s.epoch
	s.cancelPending = s.sched.After(s.cfg.AnswerDelay, func() {
		s.beginReveal(epoch, answer, sources, latency)
	})

	hook := s.onQuery
	s.emitLocked(Event{Type: EventTurn, TurnID: userTurn.ID, Turn: &userTurn})
	s.mu.Unlock()

	if hook != nil {
		hook(s.projectID)
	}
	return nil
}

func (s *Session) beginReveal(epoch int, answer string, sources []models.Source, latency string) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}

	turn := models.Turn{
		ID:           uuid.New().String(),
		Role:         models.RoleAssistant,
		Text:         "",
		Sources:      sources,
		LatencyLabel: latency,
	}
	s.transcript = append(s.transcript, turn)
	s.activeSources = sources
	s.phase = PhaseRevealing

	s.cancelPending = s.sched.After(s.cfg.RevealInterval, func() {
		s.revealStep(epoch, turn.ID, answer, 0)
	})
	s.emitLocked(Event{Type: EventTurn, TurnID: turn.ID, Turn: &turn})
	s.mu.Unlock()
}

func (s *Session) revealStep(epoch int, turnID, answer string, pos int) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}

	next := pos + s.cfg.RevealChunkSize
	if next > len(answer) {
		next = len(answer)
	}
	visible := answer[:next]

	for i := range s.transcript {
		if s.transcript[i].ID == turnID {
			s.transcript[i].Text = visible
			break
		}
	}

	if next < len(answer) {
		s.cancelPending = s.sched.After(s.cfg.RevealInterval, func() {
			s.revealStep(epoch, turnID, answer, next)
		})
		s.emitLocked(Event{Type: EventChunk, TurnID: turnID, Text: visible})
		s.mu.Unlock()
		return
	}

	s.cancelPending = nil
	s.phase = PhaseIdle
	s.emitLocked(Event{Type: EventComplete, TurnID: turnID, Text: visible})
	s.mu.Unlock()
}

// Clear empties the transcript and source panel in one step and cancels any
// in-flight reveal. No chunk update can land after Clear returns.
func (s *Session) Clear() {
	s.mu.Lock()
	s.epoch++
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
	s.transcript = nil
	s.activeSources = nil
	s.phase = PhaseIdle
	s.emitLocked(Event{Type: EventCleared})
	s.mu.Unlock()
}

// Close cancels timers without emitting; used on eviction.
func (s *Session) Close() {
	s.mu.Lock()
	s.epoch++
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
	s.listener = nil
	s.phase = PhaseIdle
	s.mu.Unlock()
}

type Snapshot struct {
	ProjectID     string          `json:"project_id"`
	Phase         Phase           `json:"phase"`
	Transcript    []models.Turn   `json:"transcript"`
	ActiveSources []models.Source `json:"active_sources"`
	Pipeline      []PipelineStep  `json:"pipeline"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ProjectID:     s.projectID,
		Phase:         s.phase,
		Transcript:    append([]models.Turn(nil), s.transcript...),
		ActiveSources: append([]models.Source(nil), s.activeSources...),
		Pipeline:      PipelineBreakdown(),
	}
}

func (s *Session) synthesizeSources() []models.Source {
	return []models.Source{
		{
			DocumentName: "product-manual.pdf",
			Score:        round2(0.70 + s.rng.Float64()*0.30),
			Excerpt:      "...relevant chunk text from the document matching the query...",
			Location:     pageLabel(s.rng.Intn(20)+1, s.rng.Intn(50)+1),
		},
		{
			DocumentName: "api-reference.docx",
			Score:        round2(0.50 + s.rng.Float64()*0.30),
			Excerpt:      "...another matching chunk with relevant information about the topic...",
			Location:     pageLabel(s.rng.Intn(15)+1, s.rng.Intn(30)+1),
		},
	}
}

func (s *Session) latencyLabel() string {
	secs := 0.8 + s.rng.Float64()*1.5
	return strings.TrimSpace(formatSeconds(secs))
}

// emitLocked snapshots the event for the listener. The caller holds the
// lock; the listener only serializes, it never calls back into the session.
func (s *Session) emitLocked(ev Event) {
	if s.listener != nil {
		s.listener(ev)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
