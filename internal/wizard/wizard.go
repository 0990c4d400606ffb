package wizard

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ragfloe/backend/internal/storage"
	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/internal/validate"
	"github.com/ragfloe/backend/pkg/logger"
	"github.com/ragfloe/backend/pkg/sched"
)

type Step string

const (
	StepBasics   Step = "basics"
	StepPipeline Step = "pipeline"
	StepData     Step = "data"
	StepCreated  Step = "created"
)

// LocalProvider needs no credential; every other LLM provider is
// bring-your-own-key.
const LocalProvider = "Ollama"

var (
	// ErrMissingCredential surfaces as a transient notification rather than
	// a field error.
	ErrMissingCredential = errors.New("enter an API key for the selected provider")

	ErrFinished = errors.New("wizard already completed")
	ErrNoBack   = errors.New("already at the first step")
)

type Draft struct {
	Name           string                   `json:"name"`
	Slug           string                   `json:"slug,omitempty"`
	Description    string                   `json:"description,omitempty"`
	VectorStore    string                   `json:"vector_store"`
	LLMProvider    string                   `json:"llm_provider"`
	LLMModel       string                   `json:"llm_model"`
	EmbeddingModel string                   `json:"embedding_model"`
	Credential     string                   `json:"-"`
	Files          []models.UploadedFileRef `json:"files"`
}

// DraftUpdate carries partial field edits; nil means leave unchanged.
type DraftUpdate struct {
	Name           *string
	Description    *string
	VectorStore    *string
	LLMProvider    *string
	LLMModel       *string
	EmbeddingModel *string
	Credential     *string
}

type FileInput struct {
	Name      string
	SizeBytes int64
}

type RejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Wizard walks a project draft through basics, pipeline and data steps.
// The draft survives back/forward navigation; only Abandon discards it.
type Wizard struct {
	mu sync.Mutex

	id    string
	step  Step
	draft Draft

	creating     bool
	created      bool
	projectID    string
	redirect     string
	cancelCreate func()

	projects    storage.ProjectRepository
	sched       sched.Scheduler
	createDelay time.Duration
}

func New(projects storage.ProjectRepository, s sched.Scheduler, createDelay time.Duration) *Wizard {
	return &Wizard{
		id:   uuid.New().String(),
		step: StepBasics,
		draft: Draft{
			VectorStore:    "Pinecone",
			LLMProvider:    "OpenAI",
			LLMModel:       "gpt-4o",
			EmbeddingModel: "text-embedding-3-small",
		},
		projects:    projects,
		sched:       s,
		createDelay: createDelay,
	}
}

func (w *Wizard) ID() string { return w.id }

func (w *Wizard) Update(u DraftUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.created || w.creating {
		return ErrFinished
	}
	if u.Name != nil {
		w.draft.Name = *u.Name
		w.draft.Slug = ""
	}
	if u.Description != nil {
		w.draft.Description = *u.Description
	}
	if u.VectorStore != nil {
		w.draft.VectorStore = *u.VectorStore
	}
	if u.LLMProvider != nil {
		w.draft.LLMProvider = *u.LLMProvider
	}
	if u.LLMModel != nil {
		w.draft.LLMModel = *u.LLMModel
	}
	if u.EmbeddingModel != nil {
		w.draft.EmbeddingModel = *u.EmbeddingModel
	}
	if u.Credential != nil {
		w.draft.Credential = *u.Credential
	}
	return nil
}

// Next advances one step. A rejected guard leaves the current step and the
// draft untouched. From the data step Next is equivalent to Create with
// whatever files are attached (attaching none is the skip path).
func (w *Wizard) Next() error {
	w.mu.Lock()

	switch w.step {
	case StepBasics:
		slug, err := validate.ProjectName(w.draft.Name)
		if err != nil {
			w.mu.Unlock()
			return err
		}
		w.draft.Slug = slug
		w.step = StepPipeline
		w.mu.Unlock()
		return nil

	case StepPipeline:
		if w.draft.LLMProvider != LocalProvider && strings.TrimSpace(w.draft.Credential) == "" {
			w.mu.Unlock()
			return ErrMissingCredential
		}
		w.step = StepData
		w.mu.Unlock()
		return nil

	case StepData:
		w.mu.Unlock()
		return w.Create()

	default:
		w.mu.Unlock()
		return ErrFinished
	}
}

func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepPipeline:
		w.step = StepBasics
	case StepData:
		w.step = StepPipeline
	case StepBasics:
		return ErrNoBack
	default:
		return ErrFinished
	}
	return nil
}

// AttachFiles appends refs for the supported formats in the batch and
// rejects the rest individually; one bad file never sinks the batch.
func (w *Wizard) AttachFiles(files []FileInput) ([]models.UploadedFileRef, []RejectedFile) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var accepted []models.UploadedFileRef
	var rejected []RejectedFile

	if w.step != StepData || w.creating || w.created {
		for _, f := range files {
			rejected = append(rejected, RejectedFile{Name: f.Name, Reason: "files can only be attached on the data step"})
		}
		return nil, rejected
	}

	for _, f := range files {
		if !models.AcceptedExtension(f.Name) {
			rejected = append(rejected, RejectedFile{
				Name:   f.Name,
				Reason: fmt.Sprintf("%s files are not supported", models.FileType(f.Name)),
			})
			continue
		}
		ref := models.UploadedFileRef{
			ID:        uuid.New().String(),
			Name:      f.Name,
			SizeBytes: f.SizeBytes,
		}
		w.draft.Files = append(w.draft.Files, ref)
		accepted = append(accepted, ref)
	}

	return accepted, rejected
}

func (w *Wizard) RemoveFile(fileID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.creating || w.created {
		return false
	}
	for i, f := range w.draft.Files {
		if f.ID == fileID {
			w.draft.Files = append(w.draft.Files[:i], w.draft.Files[i+1:]...)
			return true
		}
	}
	return false
}

// Create finalizes the draft: the project is appended immediately, then a
// fixed-duration creating pass runs before the success redirect is set.
// Further invocations while creating or created are no-ops.
func (w *Wizard) Create() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.creating || w.created {
		return nil
	}
	if w.step != StepData {
		return fmt.Errorf("create is only available from the data step")
	}

	project := models.Project{
		ID:             "proj_" + uuid.New().String()[:8],
		Name:           w.draft.Name,
		Slug:           w.draft.Slug,
		Description:    w.draft.Description,
		VectorStore:    w.draft.VectorStore,
		LLMProvider:    w.draft.LLMProvider,
		LLMModel:       w.draft.LLMModel,
		EmbeddingModel: w.draft.EmbeddingModel,
		DocumentCount:  len(w.draft.Files),
		Status:         models.ProjectActive,
		CreatedAt:      time.Now(),
	}
	w.projects.Insert(project)

	w.projectID = project.ID
	w.creating = true
	w.step = StepCreated
	w.cancelCreate = w.sched.After(w.createDelay, w.finishCreate)

	logger.Info("Project created",
		zap.String("project_id", project.ID),
		zap.String("name", project.Name),
		zap.Int("files", len(w.draft.Files)),
	)

	return nil
}

func (w *Wizard) finishCreate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.creating {
		return
	}
	w.creating = false
	w.created = true
	w.cancelCreate = nil
	w.redirect = fmt.Sprintf("/dashboard/projects/%s/documents", w.projectID)
}

// Abandon cancels any pending completion timer so nothing mutates a wizard
// the user has navigated away from.
func (w *Wizard) Abandon() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancelCreate != nil {
		w.cancelCreate()
		w.cancelCreate = nil
	}
	w.creating = false
}

// State is the serializable view the dashboard renders.
type State struct {
	ID        string `json:"id"`
	Step      Step   `json:"step"`
	Draft     Draft  `json:"draft"`
	Creating  bool   `json:"creating"`
	Created   bool   `json:"created"`
	ProjectID string `json:"project_id,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	draft := w.draft
	draft.Files = append([]models.UploadedFileRef(nil), w.draft.Files...)

	return State{
		ID:        w.id,
		Step:      w.step,
		Draft:     draft,
		Creating:  w.creating,
		Created:   w.created,
		ProjectID: w.projectID,
		Redirect:  w.redirect,
	}
}
