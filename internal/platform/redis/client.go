// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the client behind the session store.

Redis mirrors the per-profile session slots. Startup never fails on an
unreachable Redis: the client is handed back and the session store keeps
serving from memory until Redis answers again.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session slot reads sit on the request path, so every budget is short.
const (
	sessionPoolSize     = 10
	sessionMinIdleConns = 2
	sessionMaxIdleConns = 5

	dialTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
	pingTimeout = 2 * time.Second
)

/*
NewClient parses redisURL and opens a session store client.

Parameters:
  - context: stdctx.Context (bounds the initial ping)
  - redisURL: string (redis:// or rediss://)
  - logger: *slog.Logger

Returns:
  - *redis.Client: Usable even when the initial ping failed
  - error: Only for an unparsable URL
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis_url_invalid: %w", err)
	}

	options.PoolSize = sessionPoolSize
	options.MinIdleConns = sessionMinIdleConns
	options.MaxIdleConns = sessionMaxIdleConns
	options.MaxRetries = 1
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	log := logger.With(slog.String("addr", options.Addr), slog.Int("db", options.DB))

	if err := Ping(context, client); err != nil {
		log.Warn("redis_unreachable_session_store_degraded", slog.Any("error", err))
		return client, nil
	}

	log.Info("redis_connected", slog.Int("pool_size", options.PoolSize))
	return client, nil
}

// Ping checks the client within pingTimeout. The readiness probe uses it.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis_ping_failed: %w", err)
	}
	return nil
}
