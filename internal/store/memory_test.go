package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/models"
)

func testSession(id string) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:         id,
		Keyword:    "kiwi",
		Category:   "fruit",
		ImpostorID: models.Agent2,
		Roles: map[string]models.Role{
			models.Agent1: models.RoleCivilian,
			models.Agent2: models.RoleImpostor,
			models.Agent3: models.RoleCivilian,
		},
		TurnOrder: []string{models.Agent3, models.HumanID, models.Agent1, models.Agent2},
		History:   []models.Message{},
		Phase:     models.PhaseInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// storeContract runs the behavior every Store implementation must share
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, testSession("a")))
		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "kiwi", got.Keyword)
		assert.Equal(t, models.Agent2, got.ImpostorID)
		assert.Equal(t, []string{models.Agent3, models.HumanID, models.Agent1, models.Agent2}, got.TurnOrder)
	})

	t.Run("duplicate create", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, testSession("dup")))
		assert.ErrorIs(t, s.Create(ctx, testSession("dup")), game.ErrDuplicateSession)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, game.ErrSessionNotFound)
	})

	t.Run("changes are invisible until saved", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, testSession("copy")))
		got, err := s.Get(ctx, "copy")
		require.NoError(t, err)
		got.History = append(got.History, models.Message{Speaker: models.HumanID, Content: "hi"})
		got.CurrentTurnIndex++

		again, err := s.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Empty(t, again.History)
		assert.Equal(t, 0, again.CurrentTurnIndex)

		require.NoError(t, s.Save(ctx, got))
		again, err = s.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Len(t, again.History, 1)
		assert.Equal(t, 1, again.CurrentTurnIndex)
	})

	t.Run("save unknown", func(t *testing.T) {
		assert.ErrorIs(t, s.Save(ctx, testSession("ghost")), game.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, testSession("gone")))
		require.NoError(t, s.Delete(ctx, "gone"))
		_, err := s.Get(ctx, "gone")
		assert.ErrorIs(t, err, game.ErrSessionNotFound)
		assert.NoError(t, s.Delete(ctx, "gone"))
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Create(ctx, testSession("race")) == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_DeleteIdleSince(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	old := testSession("old")
	old.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.Create(ctx, old))
	require.NoError(t, s.Create(ctx, testSession("fresh")))

	n, err := s.DeleteIdleSince(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, s.Exists("old"))
	assert.True(t, s.Exists("fresh"))
}
