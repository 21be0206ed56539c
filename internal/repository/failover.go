package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"fadebook/internal/domain"
)

// FailoverAccessStateRepository serves from the primary store until it
// fails, then switches to the fallback and probes the primary again after
// a minute.
type FailoverAccessStateRepository struct {
	primary  domain.AccessStateRepository
	fallback domain.AccessStateRepository
	logger   zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex // guards lastCheck
	lastCheck time.Time
}

func NewFailoverAccessStateRepository(primary, fallback domain.AccessStateRepository, logger zerolog.Logger) *FailoverAccessStateRepository {
	return &FailoverAccessStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverAccessStateRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary access state repository failed, falling back to memory")
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

// recovered probes the primary once a minute while it is down. Only one
// goroutine wins a probe window; the rest stay on the fallback.
func (r *FailoverAccessStateRepository) recovered(ctx context.Context) bool {
	if !r.isDown.Load() {
		return true
	}

	r.mu.Lock()
	if time.Since(r.lastCheck) < time.Minute {
		r.mu.Unlock()
		return false
	}
	r.lastCheck = time.Now()
	r.mu.Unlock()

	if _, _, err := r.primary.LockedUntil(ctx, "healthcheck"); err != nil {
		return false
	}
	r.isDown.Store(false)
	r.logger.Info().Msg("primary access state repository recovered")
	return true
}

func (r *FailoverAccessStateRepository) IncrementAttempts(ctx context.Context, clientID string) (int, error) {
	if r.recovered(ctx) {
		count, err := r.primary.IncrementAttempts(ctx, clientID)
		if err == nil {
			return count, nil
		}
		r.markDown(err)
	}
	return r.fallback.IncrementAttempts(ctx, clientID)
}

func (r *FailoverAccessStateRepository) ClearAttempts(ctx context.Context, clientID string) error {
	if r.recovered(ctx) {
		err := r.primary.ClearAttempts(ctx, clientID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.ClearAttempts(ctx, clientID)
}

func (r *FailoverAccessStateRepository) Lock(ctx context.Context, clientID string, until time.Time) error {
	if r.recovered(ctx) {
		err := r.primary.Lock(ctx, clientID, until)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.Lock(ctx, clientID, until)
}

func (r *FailoverAccessStateRepository) LockedUntil(ctx context.Context, clientID string) (time.Time, bool, error) {
	if r.recovered(ctx) {
		until, locked, err := r.primary.LockedUntil(ctx, clientID)
		if err == nil {
			return until, locked, nil
		}
		r.markDown(err)
	}
	return r.fallback.LockedUntil(ctx, clientID)
}
