// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Misfit.ClientID = "id"
	cfg.Misfit.ClientSecret = "secret"
	cfg.Misfit.WebhookSecret = "hook"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing credentials",
			mutate:  func(c *Config) { c.Misfit.ClientSecret = "" },
			wantErr: "client_id and client_secret",
		},
		{
			name:    "missing webhook secret",
			mutate:  func(c *Config) { c.Misfit.WebhookSecret = "" },
			wantErr: "webhook_secret",
		},
		{
			name:    "chunk too large",
			mutate:  func(c *Config) { c.Misfit.DaysPerChunk = 31 },
			wantErr: "days_per_chunk",
		},
		{
			name:    "chunk not positive",
			mutate:  func(c *Config) { c.Misfit.DaysPerChunk = 0 },
			wantErr: "days_per_chunk",
		},
		{
			name:    "historic days not positive",
			mutate:  func(c *Config) { c.Misfit.HistoricDays = 0 },
			wantErr: "historic_days",
		},
		{
			name:    "negative jitter",
			mutate:  func(c *Config) { c.Misfit.MaxRetryJitter = -1 },
			wantErr: "max_retry_jitter",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database path",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MISFIT_CLIENT_SECRET", "misfit.client_secret"},
		{"MISFIT_WEBHOOK_SECRET", "misfit.webhook_secret"},
		{"DATABASE_PATH", "database.path"},
		{"SERVER_PORT", "server.port"},
		{"QUEUE_POISON_TOPIC", "queue.poison_topic"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
		{"UNRELATED_THING", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := envTransformFunc(tt.in); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Misfit.DaysPerChunk != 30 {
		t.Errorf("DaysPerChunk = %d, want 30", cfg.Misfit.DaysPerChunk)
	}
	if cfg.Misfit.HistoricDays != 90 {
		t.Errorf("HistoricDays = %d, want 90", cfg.Misfit.HistoricDays)
	}
	if cfg.Misfit.APIBaseURL == "" {
		t.Error("APIBaseURL default missing")
	}
	if cfg.Queue.PoisonTopic == "" {
		t.Error("PoisonTopic default missing")
	}
}
