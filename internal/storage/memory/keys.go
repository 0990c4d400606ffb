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
)

const (
	secretPrefix = "rf_live_"
	secretLength = 24
)

const secretAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

type APIKeys struct {
	mu      sync.Mutex
	keys    []models.APIKey
	armedID string
	rng     *rand.Rand
}

func NewAPIKeys(rng *rand.Rand, seed []models.APIKey) *APIKeys {
	return &APIKeys{
		keys: append([]models.APIKey(nil), seed...),
		rng:  rng,
	}
}

func (r *APIKeys) ListByProject(projectID string) []models.APIKey {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.APIKey
	for _, k := range r.keys {
		if k.ProjectID == projectID {
			out = append(out, k)
		}
	}
	return out
}

func (r *APIKeys) Create(projectID, name string) (models.APIKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.APIKey{}, "", fmt.Errorf("key name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Any pending revoke confirmation is abandoned by a new interaction.
	r.armedID = ""

	secret := r.generateSecret()
	key := models.APIKey{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		MaskedKey: maskSecret(secret),
		CreatedAt: time.Now(),
		LastUsed:  "Never",
	}
	r.keys = append(r.keys, key)

	logger.Info("API key created",
		zap.String("key_id", key.ID),
		zap.String("project_id", projectID),
		zap.String("name", name),
	)

	return key, secret, nil
}

func (r *APIKeys) Revoke(id string) (storage.RevokeOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, k := range r.keys {
		if k.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.armedID = ""
		return "", fmt.Errorf("api key not found: %s", id)
	}

	if r.armedID != id {
		r.armedID = id
		return storage.RevokeArmed, nil
	}

	r.keys = append(r.keys[:idx], r.keys[idx+1:]...)
	r.armedID = ""

	logger.Info("API key revoked", zap.String("key_id", id))
	return storage.RevokeDone, nil
}

func (r *APIKeys) Disarm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armedID = ""
}

func (r *APIKeys) generateSecret() string {
	var b strings.Builder
	b.WriteString(secretPrefix)
	for i := 0; i < secretLength; i++ {
		b.WriteByte(secretAlphabet[r.rng.Intn(len(secretAlphabet))])
	}
	return b.String()
}

func maskSecret(secret string) string {
	tail := secret[len(secret)-4:]
	return secretPrefix + strings.Repeat("•", 16) + tail
}
