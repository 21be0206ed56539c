package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIncrementAndClear(t *testing.T) {
	repo := NewMemoryAccessStateRepository()
	ctx := context.Background()

	count, err := repo.IncrementAttempts(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.IncrementAttempts(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.ClearAttempts(ctx, "1.2.3.4"))
	count, err = repo.IncrementAttempts(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryLockExpiry(t *testing.T) {
	repo := NewMemoryAccessStateRepository()
	ctx := context.Background()

	until := time.Now().Add(50 * time.Millisecond)
	require.NoError(t, repo.Lock(ctx, "1.2.3.4", until))

	_, locked, err := repo.LockedUntil(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, locked)

	time.Sleep(60 * time.Millisecond)
	_, locked, err = repo.LockedUntil(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, locked)
}
