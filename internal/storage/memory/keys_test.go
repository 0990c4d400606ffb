package memory

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragfloe/backend/internal/storage"
)

func newTestKeys(t *testing.T) *APIKeys {
	t.Helper()
	return NewAPIKeys(rand.New(rand.NewSource(1)), nil)
}

func TestCreateKeyReturnsSecretOnce(t *testing.T) {
	keys := newTestKeys(t)

	key, secret, err := keys.Create("proj_1", "Production Widget")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(secret, "rf_live_"))
	assert.Len(t, secret, len("rf_live_")+24)

	assert.True(t, strings.HasPrefix(key.MaskedKey, "rf_live_"))
	assert.True(t, strings.HasSuffix(key.MaskedKey, secret[len(secret)-4:]))
	assert.NotEqual(t, secret, key.MaskedKey)
	assert.Contains(t, key.MaskedKey, strings.Repeat("•", 16))

	// The stored record never carries the raw secret.
	listed := keys.ListByProject("proj_1")
	require.Len(t, listed, 1)
	assert.Equal(t, key.MaskedKey, listed[0].MaskedKey)
	assert.Equal(t, "Never", listed[0].LastUsed)
}

func TestCreateKeyRequiresName(t *testing.T) {
	keys := newTestKeys(t)

	_, _, err := keys.Create("proj_1", "   ")
	assert.Error(t, err)
	assert.Empty(t, keys.ListByProject("proj_1"))
}

func TestRevokeIsTwoStep(t *testing.T) {
	keys := newTestKeys(t)
	key, _, err := keys.Create("proj_1", "Test")
	require.NoError(t, err)

	outcome, err := keys.Revoke(key.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.RevokeArmed, outcome)
	assert.Len(t, keys.ListByProject("proj_1"), 1, "first call only arms")

	outcome, err = keys.Revoke(key.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.RevokeDone, outcome)
	assert.Empty(t, keys.ListByProject("proj_1"))
}

func TestRevokeDifferentKeyRearms(t *testing.T) {
	keys := newTestKeys(t)
	a, _, _ := keys.Create("proj_1", "A")
	b, _, _ := keys.Create("proj_1", "B")

	outcome, err := keys.Revoke(a.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.RevokeArmed, outcome)

	// Switching targets arms the other key instead of revoking the first.
	outcome, err = keys.Revoke(b.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.RevokeArmed, outcome)
	assert.Len(t, keys.ListByProject("proj_1"), 2)

	outcome, err = keys.Revoke(b.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.RevokeDone, outcome)
	assert.Len(t, keys.ListByProject("proj_1"), 1)
}

func TestDisarmResetsConfirmation(t *testing.T) {
	keys := newTestKeys(t)
	key, _, _ := keys.Create("proj_1", "Test")

	outcome, _ := keys.Revoke(key.ID)
	assert.Equal(t, storage.RevokeArmed, outcome)

	keys.Disarm()

	outcome, err := keys.Revoke(key.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.RevokeArmed, outcome, "disarm forces the confirm to restart")
}

func TestCreateClearsArmedState(t *testing.T) {
	keys := newTestKeys(t)
	key, _, _ := keys.Create("proj_1", "Test")

	outcome, _ := keys.Revoke(key.ID)
	assert.Equal(t, storage.RevokeArmed, outcome)

	_, _, err := keys.Create("proj_1", "Another")
	require.NoError(t, err)

	outcome, err = keys.Revoke(key.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.RevokeArmed, outcome)
}

func TestRevokeUnknownClearsArmedState(t *testing.T) {
	keys := newTestKeys(t)
	key, _, _ := keys.Create("proj_1", "Test")

	keys.Revoke(key.ID)
	_, err := keys.Revoke("nope")
	assert.Error(t, err)

	outcome, err := keys.Revoke(key.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.RevokeArmed, outcome)
}

func TestSecretsAreUnique(t *testing.T) {
	keys := newTestKeys(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		_, secret, err := keys.Create("proj_1", "k")
		require.NoError(t, err)
		assert.False(t, seen[secret])
		seen[secret] = true
	}
}
