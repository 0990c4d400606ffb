package memory

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ragfloe/backend/internal/storage"
	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/pkg/logger"
	"github.com/ragfloe/backend/pkg/sched"
)

// DocumentsConfig controls the simulated processing pass a new document
// goes through before it is searchable.
type DocumentsConfig struct {
	ProcessingDelay time.Duration
	FailureRate     float64
	MinChunks       int
	MaxChunks       int
}

type Documents struct {
	mu      sync.Mutex
	docs    []models.Document
	pending map[string]func()

	cfg   DocumentsConfig
	sched sched.Scheduler
	rng   *rand.Rand

	// onTransition fires after a document leaves processing. Used to keep
	// project counters and metrics in step.
	onTransition func(doc models.Document)
}

func NewDocuments(cfg DocumentsConfig, s sched.Scheduler, rng *rand.Rand, seed []models.Document) *Documents {
	if cfg.MaxChunks < cfg.MinChunks {
		cfg.MaxChunks = cfg.MinChunks
	}
	return &Documents{
		docs:    append([]models.Document(nil), seed...),
		pending: make(map[string]func()),
		cfg:     cfg,
		sched:   s,
		rng:     rng,
	}
}

func (r *Documents) SetTransitionHook(fn func(doc models.Document)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onTransition = fn
}

func (r *Documents) ListByProject(projectID string, filter storage.DocumentFilter) []models.Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Document
	for _, d := range r.docs {
		if d.ProjectID != projectID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && string(d.Status) != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (r *Documents) Get(id string) (models.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ID == id {
			return d, true
		}
	}
	return models.Document{}, false
}

// Add registers a document in the processing state and schedules its
// transition to completed (or, rarely, failed). Unsupported formats are
// rejected up front.
func (r *Documents) Add(projectID, name string, sizeBytes int64) (models.Document, error) {
	if !models.AcceptedExtension(name) {
		return models.Document{}, fmt.Errorf("unsupported file format: %s", models.FileType(name))
	}

	doc := models.Document{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Type:      models.FileType(name),
		SizeBytes: sizeBytes,
		Status:    models.DocumentProcessing,
		Uploaded:  time.Now(),
	}

	r.mu.Lock()
	r.docs = append([]models.Document{doc}, r.docs...)
	failed := r.rng.Float64() < r.cfg.FailureRate
	// Both bounds are reachable.
	chunks := r.cfg.MinChunks + r.rng.Intn(r.cfg.MaxChunks-r.cfg.MinChunks+1)
	r.pending[doc.ID] = r.sched.After(r.cfg.ProcessingDelay, func() {
		r.finishProcessing(doc.ID, failed, chunks)
	})
	r.mu.Unlock()

	logger.Debug("Document queued for processing",
		zap.String("doc_id", doc.ID),
		zap.String("name", doc.Name),
	)

	return doc, nil
}

func (r *Documents) finishProcessing(id string, failed bool, chunks int) {
	r.mu.Lock()
	delete(r.pending, id)

	var done *models.Document
	for i := range r.docs {
		if r.docs[i].ID != id {
			continue
		}
		if failed {
			r.docs[i].Status = models.DocumentFailed
		} else {
			r.docs[i].Status = models.DocumentCompleted
			r.docs[i].Chunks = chunks
		}
		d := r.docs[i]
		done = &d
		break
	}
	hook := r.onTransition
	r.mu.Unlock()

	if done == nil {
		// Removed while processing; nothing to report.
		return
	}

	logger.Info("Document processed",
		zap.String("doc_id", done.ID),
		zap.String("status", string(done.Status)),
		zap.Int("chunks", done.Chunks),
	)

	if hook != nil {
		hook(*done)
	}
}

// Remove deletes a document regardless of status. Deleting one that is
// still processing cancels the pending transition so no artifacts remain.
func (r *Documents) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cancel, ok := r.pending[id]; ok {
		cancel()
		delete(r.pending, id)
	}

	for i, d := range r.docs {
		if d.ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return true
		}
	}
	return false
}
