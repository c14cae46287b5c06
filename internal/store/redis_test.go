package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvg01/liargame/internal/game"
)

func setupMiniredis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	s := NewRedisStoreFromClient(client, "test:", ttl)

	t.Cleanup(func() {
		_ = s.Close()
	})
	return mr, s
}

func TestRedisStore(t *testing.T) {
	_, s := setupMiniredis(t, 0)
	storeContract(t, s)
}

func TestRedisStore_TTL(t *testing.T) {
	mr, s := setupMiniredis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testSession("ttl")))
	assert.True(t, mr.Exists("test:data:ttl"))

	mr.FastForward(45 * time.Second)
	got, err := s.Get(ctx, "ttl")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, got)) // activity refreshes the TTL

	mr.FastForward(45 * time.Second)
	_, err = s.Get(ctx, "ttl")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = s.Get(ctx, "ttl")
	assert.ErrorIs(t, err, game.ErrSessionNotFound)
}

func TestRedisStore_Closed(t *testing.T) {
	_, s := setupMiniredis(t, 0)
	require.NoError(t, s.Close())
	_, err := s.Get(context.Background(), "a")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.NoError(t, s.Close())
}

func TestNewRedisStore_RequiresAddr(t *testing.T) {
	_, err := NewRedisStore(RedisConfig{})
	assert.Error(t, err)
}

func TestRedisLocker(t *testing.T) {
	mr, s := setupMiniredis(t, 0)
	l := NewRedisLocker(s, time.Minute)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:s1"))

	// a second holder waits until the context gives up
	short, cancel := context.WithTimeout(ctx, 60*time.Millisecond)
	defer cancel()
	_, err = l.Lock(short, "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// other sessions are unaffected
	unlockOther, err := l.Lock(ctx, "s2")
	require.NoError(t, err)
	unlockOther()

	unlock()
	assert.False(t, mr.Exists("test:lock:s1"))

	unlock, err = l.Lock(ctx, "s1")
	require.NoError(t, err)
	unlock()
}

func TestRedisLocker_ReleaseKeepsForeignLock(t *testing.T) {
	mr, s := setupMiniredis(t, 0)
	l := NewRedisLocker(s, time.Second)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "s1")
	require.NoError(t, err)

	// lease runs out and someone else takes the lock
	mr.FastForward(2 * time.Second)
	unlockOther, err := l.Lock(ctx, "s1")
	require.NoError(t, err)

	unlock()
	assert.True(t, mr.Exists("test:lock:s1"), "stale holder must not release the new owner's lock")
	unlockOther()
	assert.False(t, mr.Exists("test:lock:s1"))
}
