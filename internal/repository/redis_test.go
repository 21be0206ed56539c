package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisRepo(t *testing.T) (*RedisAccessStateRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAccessStateRepository(client, time.Hour), mr
}

func TestRedisIncrementAttempts(t *testing.T) {
	repo, _ := setupRedisRepo(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.IncrementAttempts(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Counters are per client.
	got, err := repo.IncrementAttempts(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestRedisClearAttempts(t *testing.T) {
	repo, _ := setupRedisRepo(t)
	ctx := context.Background()

	_, err := repo.IncrementAttempts(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.NoError(t, repo.Lock(ctx, "1.2.3.4", time.Now().Add(time.Hour)))

	require.NoError(t, repo.ClearAttempts(ctx, "1.2.3.4"))

	count, err := repo.IncrementAttempts(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, locked, err := repo.LockedUntil(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisLock(t *testing.T) {
	repo, mr := setupRedisRepo(t)
	ctx := context.Background()

	until := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	require.NoError(t, repo.Lock(ctx, "1.2.3.4", until))

	got, locked, err := repo.LockedUntil(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, locked)
	assert.Equal(t, until.Unix(), got.Unix())

	// Lock expires with its TTL.
	mr.FastForward(31 * time.Minute)
	_, locked, err = repo.LockedUntil(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisAttemptsTTL(t *testing.T) {
	repo, mr := setupRedisRepo(t)
	ctx := context.Background()

	_, err := repo.IncrementAttempts(ctx, "1.2.3.4")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	count, err := repo.IncrementAttempts(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
