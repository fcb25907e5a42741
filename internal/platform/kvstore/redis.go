// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/farmreg/internal/platform/constants"
)

// RedisBackend stores persistent slots as plain string keys and the
// session area as one hash per profile.
//
// # Key Layout
//
//	farmreg:profile:<id>:<slot>     persistent slot, PersistentTTL
//	farmreg:profile:<id>:session    hash of session-scoped values, SessionTTL
type RedisBackend struct {
	client        *redis.Client
	persistentTTL time.Duration
	sessionTTL    time.Duration
}

// NewRedisBackend creates a Redis-backed session store medium.
func NewRedisBackend(client *redis.Client, persistentTTL, sessionTTL time.Duration) *RedisBackend {
	return &RedisBackend{
		client:        client,
		persistentTTL: persistentTTL,
		sessionTTL:    sessionTTL,
	}
}

// Ensure RedisBackend implements Backend
var _ Backend = (*RedisBackend)(nil)

func slotKey(namespace, key string) string {
	return constants.RedisPrefixProfile + namespace + ":" + key
}

func sessionKey(namespace string) string {
	return constants.RedisPrefixProfile + namespace + constants.RedisSuffixSession
}

func (backend *RedisBackend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	value, err := backend.client.Get(ctx, slotKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_slot_get_failed: %w", err)
	}
	return value, true, nil
}

func (backend *RedisBackend) Set(ctx context.Context, namespace, key, value string) error {
	if err := backend.client.Set(ctx, slotKey(namespace, key), value, backend.persistentTTL).Err(); err != nil {
		return fmt.Errorf("redis_slot_set_failed: %w", err)
	}
	return nil
}

func (backend *RedisBackend) Delete(ctx context.Context, namespace, key string) error {
	if err := backend.client.Del(ctx, slotKey(namespace, key)).Err(); err != nil {
		return fmt.Errorf("redis_slot_delete_failed: %w", err)
	}
	return nil
}

func (backend *RedisBackend) GetSession(ctx context.Context, namespace, key string) (string, bool, error) {
	value, err := backend.client.HGet(ctx, sessionKey(namespace), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return value, true, nil
}

func (backend *RedisBackend) SetSession(ctx context.Context, namespace, key, value string) error {
	hashKey := sessionKey(namespace)

	// HSET and EXPIRE travel together so the hash never outlives its TTL.
	pipe := backend.client.TxPipeline()
	pipe.HSet(ctx, hashKey, key, value)
	pipe.Expire(ctx, hashKey, backend.sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

func (backend *RedisBackend) ClearSession(ctx context.Context, namespace string) error {
	if err := backend.client.Del(ctx, sessionKey(namespace)).Err(); err != nil {
		return fmt.Errorf("redis_session_clear_failed: %w", err)
	}
	return nil
}
