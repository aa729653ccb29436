// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, adapters) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the mangaverse sync worker.
type Config struct {

	// Process settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// RedisURL enables cross-process sync leases. Empty disables them.
	RedisURL string `env:"REDIS_URL"`

	// OpsPort serves /health, /ready and the latest run report.
	OpsPort string `env:"OPS_PORT" envDefault:"8081"`

	// Scraping adapters
	MirrorURL    string         `env:"MIRROR_URL"    envDefault:"http://localhost:9000"`
	Sources      map[string]int `env:"SOURCES"       envDefault:"studygroup:0,readm:1,manganelo:2,mangadino:3"`
	FetchTimeout time.Duration  `env:"FETCH_TIMEOUT" envDefault:"15s"`
	FetchRetries uint           `env:"FETCH_RETRIES" envDefault:"3"`
	FetchRPS     float64        `env:"FETCH_RPS"     envDefault:"2"`

	// Synchronisation tuning
	SyncConcurrency    int           `env:"SYNC_CONCURRENCY"    envDefault:"4"`
	ChapterConcurrency int           `env:"CHAPTER_CONCURRENCY" envDefault:"8"`
	SyncSchedule       string        `env:"SYNC_SCHEDULE"       envDefault:"@every 6h"`
	StaleAfter         time.Duration `env:"STALE_AFTER"         envDefault:"24h"`
	LeaseTTL           time.Duration `env:"LEASE_TTL"           envDefault:"10m"`
}

// SourceSpec is one configured content source and its trust priority.
type SourceSpec struct {
	Name     string
	Priority int
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.SyncConcurrency < 1 {
		return nil, fmt.Errorf("config: SYNC_CONCURRENCY must be positive, got %d", cfg.SyncConcurrency)
	}
	if cfg.ChapterConcurrency < 1 {
		return nil, fmt.Errorf("config: CHAPTER_CONCURRENCY must be positive, got %d", cfg.ChapterConcurrency)
	}

	return cfg, nil
}

// SourceSpecs returns the configured sources ordered by priority, then name.
func (c *Config) SourceSpecs() []SourceSpec {
	specs := make([]SourceSpec, 0, len(c.Sources))
	for name, priority := range c.Sources {
		specs = append(specs, SourceSpec{Name: name, Priority: priority})
	}

	sort.Slice(specs, func(i, j int) bool {
		if specs[i].Priority != specs[j].Priority {
			return specs[i].Priority < specs[j].Priority
		}
		return specs[i].Name < specs[j].Name
	})

	return specs
}

// IsDevelopment reports whether the worker is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the worker is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
