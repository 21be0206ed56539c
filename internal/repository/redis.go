package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fadebook/internal/config"
)

// RedisAccessStateRepository хранит счетчики неудачных попыток и блокировки
// в Redis, чтобы они переживали рестарт сервиса.
type RedisAccessStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisAccessStateRepository(client *redis.Client, ttl time.Duration) *RedisAccessStateRepository {
	return &RedisAccessStateRepository{
		client: client,
		ttl:    ttl,
	}
}

func attemptsKey(clientID string) string { return "access_attempts:" + clientID }
func lockKey(clientID string) string     { return "access_lock:" + clientID }

func (r *RedisAccessStateRepository) IncrementAttempts(ctx context.Context, clientID string) (int, error) {
	if r.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	count, err := r.client.Incr(ctx, attemptsKey(clientID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment attempts: %w", err)
	}
	if count == 1 {
		r.client.Expire(ctx, attemptsKey(clientID), r.ttl)
	}
	return int(count), nil
}

func (r *RedisAccessStateRepository) ClearAttempts(ctx context.Context, clientID string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, attemptsKey(clientID), lockKey(clientID)).Err(); err != nil {
		return fmt.Errorf("failed to clear attempts: %w", err)
	}
	return nil
}

func (r *RedisAccessStateRepository) Lock(ctx context.Context, clientID string, until time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	value := strconv.FormatInt(until.Unix(), 10)
	if err := r.client.Set(ctx, lockKey(clientID), value, time.Until(until)).Err(); err != nil {
		return fmt.Errorf("failed to set lock: %w", err)
	}
	return nil
}

func (r *RedisAccessStateRepository) LockedUntil(ctx context.Context, clientID string) (time.Time, bool, error) {
	if r.client == nil {
		return time.Time{}, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, lockKey(clientID)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get lock: %w", err)
	}
	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse lock value: %w", err)
	}
	until := time.Unix(unix, 0)
	if time.Now().After(until) {
		return time.Time{}, false, nil
	}
	return until, true, nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
