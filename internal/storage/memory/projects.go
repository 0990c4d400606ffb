package memory

import (
	"sync"

	"github.com/ragfloe/backend/internal/storage/models"
)

type Projects struct {
	mu       sync.RWMutex
	projects []models.Project
}

func NewProjects(seed []models.Project) *Projects {
	return &Projects{projects: append([]models.Project(nil), seed...)}
}

func (r *Projects) List() []models.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Project(nil), r.projects...)
}

func (r *Projects) Get(id string) (models.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

func (r *Projects) Insert(p models.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = append(r.projects, p)
}

func (r *Projects) AdjustDocumentCount(id string, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.projects {
		if r.projects[i].ID == id {
			r.projects[i].DocumentCount += delta
			if r.projects[i].DocumentCount < 0 {
				r.projects[i].DocumentCount = 0
			}
			return
		}
	}
}

func (r *Projects) IncrementQueryCount(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.projects {
		if r.projects[i].ID == id {
			r.projects[i].QueryCount++
			return
		}
	}
}
