package memory

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragfloe/backend/internal/storage"
	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/pkg/sched"
)

func newTestDocuments(t *testing.T, failureRate float64) (*Documents, *sched.Manual) {
	t.Helper()
	clock := sched.NewManual()
	docs := NewDocuments(DocumentsConfig{
		ProcessingDelay: 2 * time.Second,
		FailureRate:     failureRate,
		MinChunks:       5,
		MaxChunks:       44,
	}, clock, rand.New(rand.NewSource(1)), nil)
	return docs, clock
}

func TestAddStartsProcessing(t *testing.T) {
	docs, clock := newTestDocuments(t, 0)

	doc, err := docs.Add("proj_1", "manual.pdf", 1024)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentProcessing, doc.Status)
	assert.Equal(t, "PDF", doc.Type)
	assert.Zero(t, doc.Chunks)

	clock.Advance(2 * time.Second)

	got, ok := docs.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, models.DocumentCompleted, got.Status)
	assert.GreaterOrEqual(t, got.Chunks, 5)
	assert.LessOrEqual(t, got.Chunks, 44)
}

func TestChunkRangeInclusive(t *testing.T) {
	clock := sched.NewManual()
	docs := NewDocuments(DocumentsConfig{
		ProcessingDelay: 2 * time.Second,
		MinChunks:       7,
		MaxChunks:       7,
	}, clock, rand.New(rand.NewSource(1)), nil)

	doc, err := docs.Add("proj_1", "exact.pdf", 1)
	require.NoError(t, err)
	clock.Advance(2 * time.Second)

	got, _ := docs.Get(doc.ID)
	assert.Equal(t, 7, got.Chunks, "equal bounds pin the chunk count")
}

func TestAddRejectsUnsupportedFormat(t *testing.T) {
	docs, _ := newTestDocuments(t, 0)

	_, err := docs.Add("proj_1", "malware.exe", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXE")

	_, err = docs.Add("proj_1", "noextension", 10)
	assert.Error(t, err)
}

func TestAddGuaranteedFailure(t *testing.T) {
	docs, clock := newTestDocuments(t, 1.0)

	doc, err := docs.Add("proj_1", "manual.pdf", 1024)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)

	got, _ := docs.Get(doc.ID)
	assert.Equal(t, models.DocumentFailed, got.Status)
	assert.Zero(t, got.Chunks, "a failed document never gains chunks")
}

func TestTransitionHookFires(t *testing.T) {
	docs, clock := newTestDocuments(t, 0)

	var seen []models.DocumentStatus
	docs.SetTransitionHook(func(d models.Document) { seen = append(seen, d.Status) })

	_, err := docs.Add("proj_1", "a.txt", 1)
	require.NoError(t, err)
	clock.Advance(2 * time.Second)

	assert.Equal(t, []models.DocumentStatus{models.DocumentCompleted}, seen)
}

func TestRemoveWhileProcessingCancelsTransition(t *testing.T) {
	docs, clock := newTestDocuments(t, 0)

	hookFired := false
	docs.SetTransitionHook(func(models.Document) { hookFired = true })

	doc, err := docs.Add("proj_1", "manual.pdf", 1024)
	require.NoError(t, err)

	assert.True(t, docs.Remove(doc.ID))
	clock.Advance(time.Minute)

	_, ok := docs.Get(doc.ID)
	assert.False(t, ok)
	assert.False(t, hookFired, "cancelled processing must not report a transition")
	assert.Zero(t, clock.Pending())
}

func TestRemoveUnknown(t *testing.T) {
	docs, _ := newTestDocuments(t, 0)
	assert.False(t, docs.Remove("nope"))
}

func TestNewestFirstOrdering(t *testing.T) {
	docs, _ := newTestDocuments(t, 0)

	first, _ := docs.Add("proj_1", "first.pdf", 1)
	second, _ := docs.Add("proj_1", "second.pdf", 1)

	list := docs.ListByProject("proj_1", storage.DocumentFilter{})
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestListFilters(t *testing.T) {
	clock := sched.NewManual()
	now := time.Now()
	docs := NewDocuments(DocumentsConfig{
		ProcessingDelay: 2 * time.Second,
		MinChunks:       5,
		MaxChunks:       44,
	}, clock, rand.New(rand.NewSource(1)), SeedDocuments(now))

	all := docs.ListByProject("proj_1", storage.DocumentFilter{})
	assert.Len(t, all, 3)

	completed := docs.ListByProject("proj_1", storage.DocumentFilter{Status: "completed"})
	assert.Len(t, completed, 2)

	// "all" is the dashboard's no-filter sentinel.
	assert.Len(t, docs.ListByProject("proj_1", storage.DocumentFilter{Status: "all"}), 3)

	byName := docs.ListByProject("proj_1", storage.DocumentFilter{Search: "MANUAL"})
	require.Len(t, byName, 1)
	assert.Equal(t, "product-manual.pdf", byName[0].Name)

	both := docs.ListByProject("proj_1", storage.DocumentFilter{Status: "completed", Search: "api"})
	require.Len(t, both, 1)
	assert.Equal(t, "api-reference.docx", both[0].Name)

	assert.Empty(t, docs.ListByProject("proj_2", storage.DocumentFilter{}))
}
