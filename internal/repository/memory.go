package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryAccessStateRepository is the in-process fallback used when Redis is
// unavailable. State is lost on restart, which for an access gate only means
// counters reset.
type MemoryAccessStateRepository struct {
	mu       sync.Mutex
	attempts map[string]int
	locks    map[string]time.Time
}

func NewMemoryAccessStateRepository() *MemoryAccessStateRepository {
	return &MemoryAccessStateRepository{
		attempts: make(map[string]int),
		locks:    make(map[string]time.Time),
	}
}

func (r *MemoryAccessStateRepository) IncrementAttempts(ctx context.Context, clientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[clientID]++
	return r.attempts[clientID], nil
}

func (r *MemoryAccessStateRepository) ClearAttempts(ctx context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, clientID)
	delete(r.locks, clientID)
	return nil
}

func (r *MemoryAccessStateRepository) Lock(ctx context.Context, clientID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks[clientID] = until
	return nil
}

func (r *MemoryAccessStateRepository) LockedUntil(ctx context.Context, clientID string) (time.Time, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.locks[clientID]
	if !ok || time.Now().After(until) {
		delete(r.locks, clientID)
		return time.Time{}, false, nil
	}
	return until, true, nil
}
