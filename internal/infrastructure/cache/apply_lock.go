// Package cache holds Redis-backed coordination helpers for the cloud backend.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisApplyLock serializes recurring-expense application runs across devices
// editing the same tenant. It is an advisory lock: losing it only means some
// other device is generating the same idempotent expenses right now.
type RedisApplyLock struct {
	client *redis.Client
	key    string
}

// NewRedisApplyLock connects to Redis and returns a lock scoped to the tenant.
func NewRedisApplyLock(addr, password string, db int, tenantID string) (*RedisApplyLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisApplyLockWithClient(client, tenantID), nil
}

// NewRedisApplyLockWithClient wraps an existing client, useful for tests or
// when sharing a client across components.
func NewRedisApplyLockWithClient(client *redis.Client, tenantID string) *RedisApplyLock {
	return &RedisApplyLock{
		client: client,
		key:    "recurring:apply:" + tenantID,
	}
}

// TryAcquire attempts to take the lock with SETNX. Returns false when another
// holder owns it.
func (l *RedisApplyLock) TryAcquire(ctx context.Context, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire apply lock: %w", err)
	}
	return acquired, nil
}

// Release drops the lock. Safe to call after TTL expiry.
func (l *RedisApplyLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("failed to release apply lock: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (l *RedisApplyLock) Close() error {
	return l.client.Close()
}
