// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Metadata: application name and version.
  - Timing: startup, ops server and shutdown timeouts.
  - Ops: per-client rate limiting and header names.
  - Catalogue: listing projection budgets.
  - Redis: key prefixes for sync leases.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "mangaverse"
	AppVersion = "0.1.0-dev"
)

// # Timing

const (
	// StartupTimeout bounds database/redis connection and migration during boot.
	StartupTimeout = 30 * time.Second

	// DefaultReadTimeout is the maximum duration for reading an ops request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the per-statement deadline applied to every pooled connection.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight work may run after a stop signal.
	ShutdownTimeout = 30 * time.Second
)

// # Catalogue

const (
	// ListingDescriptionBudget is the rune budget of the listing projection description.
	ListingDescriptionBudget = 255

	// StaleBatchLimit caps how many stale works a single re-sync run picks per source.
	StaleBatchLimit = 500
)

// # Ops Server Rate Limiting

const (
	// DefaultRateLimitRPS is the steady request rate allowed per client IP.
	DefaultRateLimitRPS = 10

	// DefaultRateLimitBurst is the bucket size per client IP.
	DefaultRateLimitBurst = 20

	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldCode    = "code"
	FieldError   = "error"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSyncLease = "sync:lease:"
)
