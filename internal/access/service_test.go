package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fadebook/internal/repository"
)

func setupService(t *testing.T) (*Service, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	state := repository.NewRedisAccessStateRepository(client, time.Hour)
	return NewService("1234", "secret-admin", state, zerolog.Nop()), mr
}

func TestVerifyCorrectCodes(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	level, err := svc.Verify(ctx, "1.2.3.4", "1234")
	require.NoError(t, err)
	assert.Equal(t, LevelCustomer, level)

	level, err = svc.Verify(ctx, "1.2.3.4", "secret-admin")
	require.NoError(t, err)
	assert.Equal(t, LevelAdmin, level)
}

func TestVerifyWrongCodeCountsDown(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Verify(ctx, "1.2.3.4", "nope")
	var invalid *InvalidCodeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, invalid.Remaining)

	_, err = svc.Verify(ctx, "1.2.3.4", "nope")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Remaining)
}

func TestVerifyLockout(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	var locked *LockedError
	for i := 0; i < 3; i++ {
		_, err := svc.Verify(ctx, "1.2.3.4", "nope")
		require.Error(t, err)
		if i == 2 {
			require.ErrorAs(t, err, &locked)
			assert.WithinDuration(t, time.Now().Add(30*time.Minute), locked.Until, time.Minute)
		}
	}

	// Even the right code is refused while locked.
	_, err := svc.Verify(ctx, "1.2.3.4", "1234")
	assert.ErrorAs(t, err, &locked)

	// Other clients are unaffected.
	level, err := svc.Verify(ctx, "5.6.7.8", "1234")
	require.NoError(t, err)
	assert.Equal(t, LevelCustomer, level)
}

func TestVerifyLockoutExpires(t *testing.T) {
	svc, mr := setupService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = svc.Verify(ctx, "1.2.3.4", "nope")
	}

	mr.FastForward(31 * time.Minute)

	level, err := svc.Verify(ctx, "1.2.3.4", "1234")
	require.NoError(t, err)
	assert.Equal(t, LevelCustomer, level)
}

func TestVerifySuccessResetsAttempts(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Verify(ctx, "1.2.3.4", "nope")
	require.Error(t, err)
	_, err = svc.Verify(ctx, "1.2.3.4", "nope")
	require.Error(t, err)

	_, err = svc.Verify(ctx, "1.2.3.4", "1234")
	require.NoError(t, err)

	// Counter starts over after a success.
	_, err = svc.Verify(ctx, "1.2.3.4", "nope")
	var invalid *InvalidCodeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, invalid.Remaining)
}

func TestVerifyEmptyAdminCodeDisabled(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	state := repository.NewRedisAccessStateRepository(client, time.Hour)
	svc := NewService("1234", "", state, zerolog.Nop())

	_, err := svc.Verify(context.Background(), "1.2.3.4", "")
	var invalid *InvalidCodeError
	assert.True(t, errors.As(err, &invalid))
}
