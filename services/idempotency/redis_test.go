package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisStore(client, time.Hour)
}

func TestRedisStore_ClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestRedis(t)

	id, claimed, err := store.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Empty(t, id)

	t.Run("in flight", func(t *testing.T) {
		id, claimed, err := store.Claim(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Empty(t, id)
	})

	t.Run("completed", func(t *testing.T) {
		require.NoError(t, store.Complete(ctx, "k1", "inv-1"))
		id, claimed, err := store.Claim(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Equal(t, "inv-1", id)
	})
}

func TestRedisStore_Release(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestRedis(t)

	_, claimed, err := store.Claim(ctx, "k2")
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, store.Release(ctx, "k2"))

	_, claimed, err = store.Claim(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisStore_ClaimExpires(t *testing.T) {
	ctx := context.Background()
	mr, store := setupTestRedis(t)

	require.NoError(t, store.Complete(ctx, "k3", "inv-3"))
	mr.FastForward(2 * time.Hour)

	_, claimed, err := store.Claim(ctx, "k3")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisStore_PendingClaimExpiresEarly(t *testing.T) {
	ctx := context.Background()
	mr, store := setupTestRedis(t)

	_, claimed, err := store.Claim(ctx, "k4")
	require.NoError(t, err)
	require.True(t, claimed)
	assert.Equal(t, PendingTTL, mr.TTL(keyPrefix+"k4"))

	mr.FastForward(PendingTTL + time.Second)

	_, claimed, err = store.Claim(ctx, "k4")
	require.NoError(t, err)
	assert.True(t, claimed)

	require.NoError(t, store.Complete(ctx, "k4", "inv-4"))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"k4"))
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var s Store = Noop{}

	for i := 0; i < 2; i++ {
		_, claimed, err := s.Claim(ctx, "same")
		require.NoError(t, err)
		assert.True(t, claimed)
	}
	assert.NoError(t, s.Complete(ctx, "same", "inv-1"))
	assert.NoError(t, s.Release(ctx, "same"))
}
