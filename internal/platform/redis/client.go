// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile coordination data.

The sync worker uses it for one thing: short-lived per-URL leases, so that two
overlapping runs (a cron tick and a manual `sync`, or two replicas) never
reconcile the same work at the same time.

Core Responsibilities:

  - Volatility: Leases expire on their own after a TTL.
  - Ownership: A lease is only released by the token that acquired it.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Opiniated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = 10
	options.MinIdleConns = 1
	options.MaxIdleConns = 4

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// # Leases

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireLease sets key to token with ttl if the key is free.
// It reports false, without error, when another holder owns the key.
func AcquireLease(context stdctx.Context, client *redis.Client, key, token string, ttl time.Duration) (bool, error) {
	acquired, err := client.SetNX(context, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to acquire lease %s: %w", key, err)
	}
	return acquired, nil
}

// ReleaseLease drops key if it is still owned by token.
func ReleaseLease(context stdctx.Context, client *redis.Client, key, token string) error {
	if err := releaseScript.Run(context, client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("redis: failed to release lease %s: %w", key, err)
	}
	return nil
}
