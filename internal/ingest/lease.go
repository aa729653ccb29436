// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/redis"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// Leaser grants exclusive, expiring ownership of a work URL.
//
// Acquire reports false, without error, when another run holds the URL. The
// returned release func is non-nil exactly when the lease was granted.
type Leaser interface {
	Acquire(ctx context.Context, url string) (release func(), ok bool, err error)
}

// NopLeaser grants every lease. It is used when no Redis is configured.
type NopLeaser struct{}

// Acquire implements [Leaser].
func (NopLeaser) Acquire(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

// RedisLeaser stores leases as Redis keys with a TTL.
type RedisLeaser struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisLeaser constructs a new [RedisLeaser].
func NewRedisLeaser(client *goredis.Client, ttl time.Duration, logger *slog.Logger) *RedisLeaser {
	return &RedisLeaser{client: client, ttl: ttl, logger: logger}
}

// Acquire implements [Leaser].
func (l *RedisLeaser) Acquire(ctx context.Context, url string) (func(), bool, error) {
	key := constants.RedisPrefixSyncLease + url
	token := uuid.New()

	ok, err := redis.AcquireLease(ctx, l.client, key, token, l.ttl)
	if err != nil || !ok {
		return nil, false, err
	}

	release := func() {
		// The job context may already be cancelled; the key must still go.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := redis.ReleaseLease(releaseCtx, l.client, key, token); err != nil {
			l.logger.Warn("sync_lease_release_failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return release, true, nil
}
