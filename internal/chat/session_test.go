package chat

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/pkg/sched"
)

var testConfig = Config{
	AnswerDelay:     1200 * time.Millisecond,
	RevealInterval:  15 * time.Millisecond,
	RevealChunkSize: 3,
}

func newTestSession(t *testing.T) (*Session, *manualHarness) {
	t.Helper()
	h := newManualHarness()
	sess := NewSession("proj_1", testConfig, h.clock, rand.New(rand.NewSource(42)))
	sess.SetListener(h.record)
	return sess, h
}

type manualHarness struct {
	clock  *sched.Manual
	events []Event
}

func newManualHarness() *manualHarness {
	return &manualHarness{clock: sched.NewManual()}
}

func (h *manualHarness) record(ev Event) {
	h.events = append(h.events, ev)
}

func (h *manualHarness) eventTypes() []EventType {
	out := make([]EventType, 0, len(h.events))
	for _, ev := range h.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestSubmitQueryAppendsUserTurnImmediately(t *testing.T) {
	sess, _ := newTestSession(t)

	require.NoError(t, sess.SubmitQuery("  What is the refund policy?  "))

	snap := sess.Snapshot()
	require.Len(t, snap.Transcript, 1)
	assert.Equal(t, models.RoleUser, snap.Transcript[0].Role)
	assert.Equal(t, "What is the refund policy?", snap.Transcript[0].Text, "input is trimmed")
	assert.Equal(t, PhaseAwaiting, snap.Phase)
}

func TestSubmitQueryRejectsEmpty(t *testing.T) {
	sess, _ := newTestSession(t)

	assert.ErrorIs(t, sess.SubmitQuery(""), ErrEmptyQuery)
	assert.ErrorIs(t, sess.SubmitQuery("   \t  "), ErrEmptyQuery)
	assert.Empty(t, sess.Snapshot().Transcript)
}

func TestSubmitQueryRejectsWhileBusy(t *testing.T) {
	sess, h := newTestSession(t)

	require.NoError(t, sess.SubmitQuery("first"))
	assert.ErrorIs(t, sess.SubmitQuery("second"), ErrBusy)

	// Still busy while revealing.
	h.clock.Advance(testConfig.AnswerDelay + testConfig.RevealInterval)
	assert.Equal(t, PhaseRevealing, sess.Snapshot().Phase)
	assert.ErrorIs(t, sess.SubmitQuery("third"), ErrBusy)

	// Idle again after the reveal completes.
	h.clock.Advance(10 * time.Second)
	assert.Equal(t, PhaseIdle, sess.Snapshot().Phase)
	require.NoError(t, sess.SubmitQuery("fourth"))
}

func TestAnswerRevealsInChunks(t *testing.T) {
	sess, h := newTestSession(t)

	require.NoError(t, sess.SubmitQuery("how does auth work"))

	h.clock.Advance(testConfig.AnswerDelay)
	snap := sess.Snapshot()
	require.Len(t, snap.Transcript, 2)
	assistant := snap.Transcript[1]
	assert.Equal(t, models.RoleAssistant, assistant.Role)
	assert.Empty(t, assistant.Text, "text reveals over time, not at once")
	assert.Len(t, assistant.Sources, 2, "sources attach with the turn")
	assert.NotEmpty(t, assistant.LatencyLabel)
	assert.Len(t, snap.ActiveSources, 2)

	h.clock.Advance(testConfig.RevealInterval)
	partial := sess.Snapshot().Transcript[1].Text
	assert.Len(t, partial, testConfig.RevealChunkSize)

	h.clock.Advance(testConfig.RevealInterval)
	longer := sess.Snapshot().Transcript[1].Text
	assert.Len(t, longer, 2*testConfig.RevealChunkSize)
	assert.Equal(t, partial, longer[:len(partial)], "reveal is strictly append-only")

	h.clock.Advance(time.Minute)
	final := sess.Snapshot()
	assert.Equal(t, PhaseIdle, final.Phase)
	assert.Contains(t, answerPool, final.Transcript[1].Text, "full answer comes from the pool")
}

func TestRevealEmitsEventStream(t *testing.T) {
	sess, h := newTestSession(t)

	require.NoError(t, sess.SubmitQuery("hello"))
	h.clock.Advance(time.Minute)

	types := h.eventTypes()
	require.GreaterOrEqual(t, len(types), 4)
	assert.Equal(t, EventTurn, types[0], "user turn")
	assert.Equal(t, EventTurn, types[1], "assistant turn")
	assert.Equal(t, EventComplete, types[len(types)-1])
	for _, typ := range types[2 : len(types)-1] {
		assert.Equal(t, EventChunk, typ)
	}
}

func TestClearCancelsPendingAnswer(t *testing.T) {
	sess, h := newTestSession(t)

	require.NoError(t, sess.SubmitQuery("hello"))
	sess.Clear()

	h.clock.Advance(time.Minute)

	snap := sess.Snapshot()
	assert.Empty(t, snap.Transcript, "no turn may appear after clear")
	assert.Empty(t, snap.ActiveSources)
	assert.Equal(t, PhaseIdle, snap.Phase)
}

func TestClearCancelsMidReveal(t *testing.T) {
	sess, h := newTestSession(t)

	require.NoError(t, sess.SubmitQuery("hello"))
	h.clock.Advance(testConfig.AnswerDelay + 3*testConfig.RevealInterval)
	require.Equal(t, PhaseRevealing, sess.Snapshot().Phase)

	sess.Clear()
	h.clock.Advance(time.Minute)

	snap := sess.Snapshot()
	assert.Empty(t, snap.Transcript)
	assert.Equal(t, PhaseIdle, snap.Phase)

	// The session accepts new queries after a clear.
	require.NoError(t, sess.SubmitQuery("again"))
	h.clock.Advance(time.Minute)
	assert.Len(t, sess.Snapshot().Transcript, 2)
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	sess, _ := newTestSession(t)

	turns, sources := SeedTranscript()
	sess.Seed(turns, sources)

	snap := sess.Snapshot()
	assert.Len(t, snap.Transcript, 2)
	assert.Len(t, snap.ActiveSources, 3)

	sess.Seed(turns, sources)
	assert.Len(t, sess.Snapshot().Transcript, 2, "second seed is a no-op")
}

func TestQueryHookFiresPerAcceptedSubmission(t *testing.T) {
	sess, h := newTestSession(t)

	var calls []string
	sess.SetQueryHook(func(projectID string) { calls = append(calls, projectID) })

	require.NoError(t, sess.SubmitQuery("one"))
	assert.ErrorIs(t, sess.SubmitQuery("two"), ErrBusy)
	h.clock.Advance(time.Minute)
	require.NoError(t, sess.SubmitQuery("three"))

	assert.Equal(t, []string{"proj_1", "proj_1"}, calls)
}

func TestSourceScoresStayInRange(t *testing.T) {
	sess, h := newTestSession(t)

	require.NoError(t, sess.SubmitQuery("scores"))
	h.clock.Advance(time.Minute)

	sources := sess.Snapshot().Transcript[1].Sources
	require.Len(t, sources, 2)
	assert.Equal(t, "product-manual.pdf", sources[0].DocumentName)
	assert.GreaterOrEqual(t, sources[0].Score, 0.70)
	assert.LessOrEqual(t, sources[0].Score, 1.00)
	assert.Equal(t, "api-reference.docx", sources[1].DocumentName)
	assert.GreaterOrEqual(t, sources[1].Score, 0.50)
	assert.LessOrEqual(t, sources[1].Score, 0.80)
}

func TestSnapshotIncludesPipelineBreakdown(t *testing.T) {
	sess, _ := newTestSession(t)

	steps := sess.Snapshot().Pipeline
	require.Len(t, steps, 4)
	assert.Equal(t, "Query Embedded", steps[0].Name)
	assert.Equal(t, "Response Generated", steps[3].Name)
}
