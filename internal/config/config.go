// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

// Package config provides layered application configuration.
//
// Configuration is loaded via Koanf v2 with the following precedence
// (highest wins):
//
//  1. Environment variables (MISFIT_CLIENT_SECRET -> misfit.client_secret)
//  2. Optional YAML config file (config.yaml)
//  3. Built-in defaults
//
// The resulting Config struct is immutable after Load() and is passed
// explicitly into every component constructor; there is no global
// settings lookup.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Misfit   MisfitConfig   `koanf:"misfit"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Queue    QueueConfig    `koanf:"queue"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// MisfitConfig configures the Misfit cloud API integration.
type MisfitConfig struct {
	// ClientID and ClientSecret are the application credentials issued
	// by Misfit. Both are required.
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`

	// WebhookSecret is the shared secret used to verify the HMAC-SHA256
	// signature on notification envelopes. Required.
	WebhookSecret string `koanf:"webhook_secret"`

	// APIBaseURL is the Misfit cloud API root.
	APIBaseURL string `koanf:"api_base_url"`

	// HistoricDays is how far back historical import reaches when no
	// explicit start date is given.
	HistoricDays int `koanf:"historic_days"`

	// DaysPerChunk caps the date span of a single remote API call.
	// The Misfit API rejects ranges longer than 30 days.
	DaysPerChunk int `koanf:"days_per_chunk"`

	// MaxRetryJitter bounds the random jitter added to rate-limit retry
	// delays so many linked accounts do not retry in lockstep.
	MaxRetryJitter time.Duration `koanf:"max_retry_jitter"`

	// RequestsPerHour is the client-side request budget against the
	// Misfit API rate limit (150/hour per token).
	RequestsPerHour int `koanf:"requests_per_hour"`
}

// DatabaseConfig configures the DuckDB store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs/RateLimitWindow bound inbound webhook traffic.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// QueueConfig configures the in-process task queue.
type QueueConfig struct {
	// OutputBuffer is the channel buffer per topic.
	OutputBuffer int64 `koanf:"output_buffer"`

	// PoisonTopic receives messages that failed permanently.
	PoisonTopic string `koanf:"poison_topic"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for missing or malformed values.
func (c *Config) Validate() error {
	if c.Misfit.ClientID == "" || c.Misfit.ClientSecret == "" {
		return fmt.Errorf("misfit client_id and client_secret are required")
	}
	if c.Misfit.WebhookSecret == "" {
		return fmt.Errorf("misfit webhook_secret is required")
	}
	if c.Misfit.DaysPerChunk <= 0 || c.Misfit.DaysPerChunk > 30 {
		return fmt.Errorf("misfit days_per_chunk must be in 1..30, got %d", c.Misfit.DaysPerChunk)
	}
	if c.Misfit.HistoricDays <= 0 {
		return fmt.Errorf("misfit historic_days must be positive, got %d", c.Misfit.HistoricDays)
	}
	if c.Misfit.MaxRetryJitter < 0 {
		return fmt.Errorf("misfit max_retry_jitter must not be negative")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1..65535, got %d", c.Server.Port)
	}
	return nil
}
